// Package services implements the driving port interfaces.
//
// AnalysisService runs the question battery over a document: it chunks the
// text, embeds and indexes the chunks, then for each batch of questions
// retrieves context, prompts the completion provider and parses the
// numbered answers. Provider calls go through a RetryingCaller that backs
// off only on rate limits.
//
// Services depend on driven ports only and import no adapter packages.
package services
