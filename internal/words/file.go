package words

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// listFile is the on-disk layout of json and yaml word lists. encoding/json
// matches keys case-insensitively, so {"Words": [...]} files load too.
type listFile struct {
	Words []string `json:"words" yaml:"words"`
}

// Load reads a word list, choosing the format by file extension:
// .json, .yaml/.yml, .db/.sqlite/.sqlite3, anything else one word per line.
func Load(path string) (*Dictionary, error) {
	switch ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		raw, err := readSQLite(path)
		if err != nil {
			return nil, err
		}
		return New(raw)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw []string
	switch ext(path) {
	case ".json":
		var lf listFile
		if err := json.NewDecoder(f).Decode(&lf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		raw = lf.Words
	case ".yaml", ".yml":
		var lf listFile
		if err := yaml.NewDecoder(f).Decode(&lf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		raw = lf.Words
	default:
		if raw, err = readLines(f); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return New(raw)
}

// Save writes d to path in the format implied by its extension.
func Save(path string, d *Dictionary) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	switch ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return writeSQLite(path, d.list)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ext(path) {
	case ".json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(listFile{Words: d.list})
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(f)
		err = enc.Encode(listFile{Words: d.list})
		if err == nil {
			err = enc.Close()
		}
	default:
		w := bufio.NewWriter(f)
		for _, word := range d.list {
			if _, err = w.WriteString(word + "\n"); err != nil {
				break
			}
		}
		if err == nil {
			err = w.Flush()
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// readLines loads one word per line, skipping blanks and # comments.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
