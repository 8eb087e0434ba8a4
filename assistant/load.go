package assistant

import (
	"context"
	"fmt"
	"log"

	"github.com/NikshepShetty/vaa-genai-technical-test/content"
	"github.com/NikshepShetty/vaa-genai-technical-test/store"
)

// LoadCorpus reads the help corpus at path and upserts it into the index.
// Malformed records are skipped and logged, not fatal to the load; repeating
// a load with the same corpus leaves the index contents unchanged. Returns
// the number of chunks loaded and the number of records skipped.
func LoadCorpus(ctx context.Context, index store.Index, path string, logger *log.Logger) (int, int, error) {
	if logger == nil {
		logger = log.Default()
	}

	records, err := content.LoadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("load help content: %w", err)
	}

	chunks, malformed := content.Normalize(records)
	for _, recordErr := range malformed {
		logger.Printf("skipping malformed record: %v", recordErr)
	}

	if err := index.Upsert(ctx, chunks); err != nil {
		return 0, len(malformed), fmt.Errorf("index help content: %w", err)
	}

	return len(chunks), len(malformed), nil
}
