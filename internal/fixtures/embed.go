package fixtures

import "embed"

//go:embed testdata/*.txtar
var testdataFS embed.FS

// Testdata returns the corpus baked into testdata/*.txtar at build time.
func Testdata() (*Corpus, error) {
	return LoadCorpusFS(testdataFS, "testdata")
}
