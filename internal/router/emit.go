package router

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// MaxMessageSize is the longest chunk, in runes, handed to a single Send.
const MaxMessageSize = 500

// Chunks splits text into MaxMessageSize rune pieces. The remainder is always
// appended, so an exact multiple of MaxMessageSize ends with an empty chunk.
func Chunks(text string) []string {
	if text == "" {
		return []string{""}
	}
	chunks := lo.ChunkString(text, MaxMessageSize)
	if lo.RuneLength(text)%MaxMessageSize == 0 {
		chunks = append(chunks, "")
	}
	return chunks
}

// Emit sends text to to in order, one chunk at a time. The first failed
// send stops the rest.
func Emit(ctx context.Context, to Sender, text string) error {
	for i, chunk := range Chunks(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := to.Send(ctx, chunk); err != nil {
			return fmt.Errorf("send chunk %d: %w", i+1, err)
		}
	}
	return nil
}
