// Package fixtures holds the golden-output corpus exercised by every
// phase's regression tests: one Lattice source file per case plus its
// expected `-emit=ast` and `-emit=ir` (at each optimization level) dumps,
// stored as txtar archives the way golang.org/x/tools' own test corpora do
// (the teacher imports golang.org/x/tools itself, though for its
// go/packages loader rather than txtar; txtar is simply the format the
// same dependency ships for exactly this "one file holds a case plus its
// expected outputs" need). A sqlite-backed Store (store.go) remembers the
// last known-good hash of each case's dump, so a change in generated
// output is flagged as a regression to review rather than silently
// accepted by a plain string diff.
package fixtures

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"
)

// Case is one golden fixture: a Lattice source file plus its expected
// dumps at each compilation stage named by Golden's keys (e.g. "ast",
// "ir.O0", "ir.O1", ...).
type Case struct {
	Name   string
	Source string
	Golden map[string]string
}

// Corpus is an ordered collection of Cases loaded from txtar archives.
type Corpus struct {
	Cases []Case
}

// ParseCase parses one txtar archive into a Case. The archive must contain
// a file named "input.lat" (at any position), which becomes the Source;
// every other file's name becomes a Golden key
// (its extension, if ".txt", is stripped — "ir.O2.txt" becomes "ir.O2").
func ParseCase(name string, data []byte) (Case, error) {
	archive := txtar.Parse(data)

	c := Case{Name: name, Golden: map[string]string{}}
	found := false
	for _, f := range archive.Files {
		if f.Name == "input.lat" {
			c.Source = string(f.Data)
			found = true
			continue
		}
		key := strings.TrimSuffix(f.Name, ".txt")
		c.Golden[key] = string(f.Data)
	}
	if !found {
		return Case{}, fmt.Errorf("fixtures: case %s has no input.lat file", name)
	}
	return c, nil
}

// Format renders c back into a txtar archive, the inverse of ParseCase:
// input.lat first, then one file per Golden key in sorted key order.
func (c Case) Format() []byte {
	archive := &txtar.Archive{
		Files: []txtar.File{{Name: "input.lat", Data: []byte(c.Source)}},
	}
	for _, key := range sortedGoldenKeys(c.Golden) {
		archive.Files = append(archive.Files, txtar.File{
			Name: key + ".txt",
			Data: []byte(c.Golden[key]),
		})
	}
	return txtar.Format(archive)
}

// LoadCorpus parses every (name, data) archive pair into a Corpus, with
// the cases sorted by name.
func LoadCorpus(archives map[string][]byte) (*Corpus, error) {
	names := make([]string, 0, len(archives))
	for name := range archives {
		names = append(names, name)
	}
	sort.Strings(names)

	corpus := &Corpus{}
	for _, name := range names {
		c, err := ParseCase(name, archives[name])
		if err != nil {
			return nil, err
		}
		corpus.Cases = append(corpus.Cases, c)
	}
	return corpus, nil
}

// LoadCorpusFS loads every *.txtar file directly under dir in fsys, which
// may be an embed.FS (baked into the binary) or os.DirFS (for local
// iteration).
func LoadCorpusFS(fsys fs.FS, dir string) (*Corpus, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading corpus dir %s: %w", dir, err)
	}

	archives := map[string][]byte{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txtar") {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("fixtures: reading %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".txtar")
		archives[name] = data
	}
	return LoadCorpus(archives)
}

func sortedGoldenKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
