package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/embeddings"
)

const defaultDims = 256

// Hashing embeds text locally by feature hashing word and character trigram
// counts into a fixed size, L2 normalised vector. Identical text always maps to
// the identical vector, so exact skill matches sit at distance zero.
type Hashing struct {
	dims int
}

func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = defaultDims
	}
	return &Hashing{dims: dims}
}

func (h *Hashing) Dims() int { return h.dims }

func (h *Hashing) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.embed(t)
	}
	return out, nil
}

func (h *Hashing) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

func (h *Hashing) embed(text string) []float32 {
	vec := make([]float32, h.dims)
	for _, tok := range tokens(text) {
		h.add(vec, "w:"+tok, 1)
		padded := " " + tok + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			h.add(vec, "c:"+string(runes[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (h *Hashing) add(vec []float32, feature string, weight float32) {
	f := fnv.New32a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum32()
	idx := int(sum % uint32(h.dims))
	// top bit picks the sign so collisions tend to cancel
	if sum&0x80000000 != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

var _ embeddings.Embedder = (*Hashing)(nil)
