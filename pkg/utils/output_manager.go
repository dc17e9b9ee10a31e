package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager lays out report files one directory per upload.
type OutputManager struct {
	BaseOutputDir string
}

func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// UploadDir creates the directory for an upload's outputs.
func (om *OutputManager) UploadDir(uploadID string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, filepath.Base(uploadID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload output directory: %w", err)
	}
	return dir, nil
}

// OutputFilePath returns where fileName lives for uploadID, creating the
// directory if needed. Path separators in fileName are dropped.
func (om *OutputManager) OutputFilePath(uploadID, fileName string) (string, error) {
	dir, err := om.UploadDir(uploadID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(fileName)), nil
}

// FileType determines the file type based on extension.
func FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".xlsx", ".xlsm":
		return "excel"
	default:
		return "unknown"
	}
}
