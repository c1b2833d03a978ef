package output

import (
	"io"
	"os"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

func createWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return file, file, nil
	}
	return os.Stdout, nil, nil
}
