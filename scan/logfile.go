package scan

import (
	"bytes"
	"io"
	"os"
)

// LogFile is one compressed container log handed to the Scanner.
// Open is called at most once per scan.
type LogFile struct {
	Path string
	Open func() (io.ReadCloser, error)
}

// FileLog returns a LogFile reading path from disk.
func FileLog(path string) LogFile {
	return LogFile{
		Path: path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileLogs wraps each path with FileLog, keeping order.
func FileLogs(paths []string) []LogFile {
	logs := make([]LogFile, 0, len(paths))
	for _, p := range paths {
		logs = append(logs, FileLog(p))
	}
	return logs
}

// BytesLog returns a LogFile serving data from memory.
func BytesLog(path string, data []byte) LogFile {
	return LogFile{
		Path: path,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}
