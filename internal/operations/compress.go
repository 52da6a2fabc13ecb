package operations

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ZstdExt is appended to compressed backup info files.
const ZstdExt = ".zst"

// CompressZstd compresses inputPath into inputPath.zst and removes the original.
// On failure the original stays and no partial .zst is left behind.
func CompressZstd(inputPath string) (_ string, err error) {
	outputPath := inputPath + ZstdExt

	inFile, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		outFile.Close()
		if err != nil {
			_ = os.Remove(outputPath)
		}
	}()

	// Create a Zstandard writer
	writer, err := zstd.NewWriter(outFile)
	if err != nil {
		return "", fmt.Errorf("failed to create Zstandard writer: %w", err)
	}
	// Copy the input file to the Zstandard writer
	if _, err := io.Copy(writer, inFile); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to compress file: %w", err)
	}
	// Close flushes the final frame; it must happen before the file is closed
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish Zstandard stream: %w", err)
	}
	if err := outFile.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync output file: %w", err)
	}

	inFile.Close()
	if err := os.Remove(inputPath); err != nil {
		return "", fmt.Errorf("failed to remove original file: %w", err)
	}

	return outputPath, nil
}

// zstdReadCloser adapts *zstd.Decoder, whose Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewZstdReader returns a decompressing reader over r.
func NewZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create Zstandard reader: %w", err)
	}
	return zstdReadCloser{Decoder: dec}, nil
}
