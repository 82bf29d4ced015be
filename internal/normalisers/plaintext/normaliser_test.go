package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()

	assert.Equal(t, []string{".txt", ".text"}, n.SupportedExtensions())
	assert.Equal(t, 5, n.Priority())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{name: "plain", content: []byte("The vessel ran aground."), want: "The vessel ran aground."},
		{name: "crlf", content: []byte("line one\r\nline two"), want: "line one\nline two"},
		{name: "bom", content: append([]byte{0xEF, 0xBB, 0xBF}, "Informe"...), want: "Informe"},
		{name: "empty", content: nil, want: ""},
		{name: "accents", content: []byte("tripulación"), want: "tripulación"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := New().Normalise(context.Background(), &domain.RawDocument{
				Name:    "report.txt",
				Path:    "/in/report.txt",
				Content: tt.content,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Text)
			assert.Equal(t, "report.txt", doc.Name)
			assert.Equal(t, "/in/report.txt", doc.Path)
			assert.NotEmpty(t, doc.ID)
		})
	}
}

func TestNormalise_Binary(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{
		Name:    "image.txt",
		Content: []byte{0xff, 0xfe, 0x00, 0x81},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedDocument)
}

func TestNormalise_Nil(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
