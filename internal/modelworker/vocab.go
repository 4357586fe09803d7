package modelworker

import (
	"bufio"
	"fmt"
	"os"
)

// vocab maps WordPiece tokens to ids; the id of a token is its line number
type vocab struct {
	ids   map[string]int64
	unkID int64
	clsID int64
	sepID int64
	padID int64
}

func loadVocab(path string) (*vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	ids := make(map[string]int64, 32000)
	var next int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ids[sc.Text()] = next
		next++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	return newVocab(ids)
}

func newVocab(ids map[string]int64) (*vocab, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("vocab is empty")
	}
	v := &vocab{ids: ids}
	for name, dest := range map[string]*int64{
		unknownToken: &v.unkID,
		clsToken:     &v.clsID,
		sepToken:     &v.sepID,
		padToken:     &v.padID,
	} {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("vocab missing special token %s", name)
		}
		*dest = id
	}
	return v, nil
}

func (v *vocab) id(token string) int64 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.unkID
}

func (v *vocab) has(token string) bool {
	_, ok := v.ids[token]
	return ok
}
