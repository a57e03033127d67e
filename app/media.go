package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MediaTimestampLayout is the layout of derived media timestamps.
const MediaTimestampLayout = "2006-01-02T15:04:05"

// Camera-style names such as FUJI20170721T134312.JPG.
var mediaStampPattern = regexp.MustCompile(`^[A-Za-z]+(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})\.[A-Za-z]+`)

// DeriveMediaTimestamp returns the capture time embedded in the file name,
// or the file's modification time in local time.
func DeriveMediaTimestamp(path string) (string, error) {
	if m := mediaStampPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		return fmt.Sprintf("%s-%s-%sT%s:%s:%s", m[1], m[2], m[3], m[4], m[5], m[6]), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading media timestamp: %w", err)
	}
	return info.ModTime().Local().Format(MediaTimestampLayout), nil
}

// PublishDate turns a media timestamp into the API's date field.
func PublishDate(stamp string) string {
	return strings.Replace(stamp, "T", " ", 1) + " GMT"
}
