package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"docqa/internal/domain"
)

// Default splitter settings.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators prefers paragraph breaks, then line breaks, then words,
// then single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Options configures a RecursiveChunker. Sizes are counted in characters.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// Piece is one chunk of text. Overlap is the number of leading characters it
// shares with the piece before it.
type Piece struct {
	Text    string
	Overlap int
}

// RecursiveChunker splits text on a prioritized list of separators and merges
// the pieces back into overlapping chunks of bounded size.
type RecursiveChunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveChunker validates opts and returns a chunker. A nil or empty
// separator list selects DefaultSeparators.
func NewRecursiveChunker(opts Options) (*RecursiveChunker, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, opts.ChunkSize)
	}
	if opts.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidConfiguration, opts.ChunkOverlap)
	}
	if opts.ChunkOverlap >= opts.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidConfiguration, opts.ChunkOverlap, opts.ChunkSize)
	}
	seps := opts.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	return &RecursiveChunker{
		chunkSize:  opts.ChunkSize,
		overlap:    opts.ChunkOverlap,
		separators: append([]string(nil), seps...),
	}, nil
}

// Chunk splits the document content into chunks that reference the document.
func (c *RecursiveChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	pieces := c.Split(document.Content)
	if len(pieces) == 0 {
		return nil, nil
	}
	chunks := make([]domain.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s:%d", document.ID, i),
			DocumentID: document.ID,
			Source:     document.Source,
			Text:       p.Text,
			Index:      i,
			Overlap:    p.Overlap,
		}
	}
	return chunks, nil
}

// Split returns the chunks of text in document order.
func (c *RecursiveChunker) Split(text string) []Piece {
	if text == "" {
		return nil
	}
	return c.merge(c.pieces(text, c.separators))
}

// pieces breaks text into parts no longer than chunkSize. Separators stay
// attached to the end of the part they terminate so the parts concatenate
// back to text.
func (c *RecursiveChunker) pieces(text string, separators []string) []string {
	if len(separators) == 0 {
		return sliceRunes(text, c.chunkSize)
	}
	sep, rest := separators[0], separators[1:]
	if sep == "" {
		return sliceRunes(text, 1)
	}
	var out []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) <= c.chunkSize {
			out = append(out, part)
			continue
		}
		out = append(out, c.pieces(part, rest)...)
	}
	return out
}

func (c *RecursiveChunker) merge(parts []string) []Piece {
	var (
		out  []Piece
		buf  strings.Builder
		size int // characters in buf
		seed int // leading characters of buf carried from the previous chunk
	)
	reseed := func(s string) {
		buf.Reset()
		buf.WriteString(s)
		size = utf8.RuneCountInString(s)
		seed = size
	}
	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		if size+n > c.chunkSize && size > seed {
			text := buf.String()
			out = append(out, Piece{Text: text, Overlap: seed})
			reseed(lastRunes(text, c.overlap))
		}
		if size+n > c.chunkSize {
			// Only the seed is buffered here; shorten it so p fits.
			reseed(lastRunes(buf.String(), c.chunkSize-n))
		}
		buf.WriteString(p)
		size += n
	}
	if size > seed {
		out = append(out, Piece{Text: buf.String(), Overlap: seed})
	}
	return out
}

// lastRunes returns the trailing n characters of s.
func lastRunes(s string, n int) string {
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, width := utf8.DecodeLastRuneInString(s[:i])
		i -= width
	}
	return s[i:]
}

// sliceRunes cuts s into consecutive slices of width characters.
func sliceRunes(s string, width int) []string {
	var out []string
	for s != "" {
		i, count := 0, 0
		for i < len(s) && count < width {
			_, w := utf8.DecodeRuneInString(s[i:])
			i += w
			count++
		}
		out = append(out, s[:i])
		s = s[i:]
	}
	return out
}
