package fsops

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var paddedIndexRe = regexp.MustCompile(`\{n:0?(\d+)d\}`)

// ApplyPattern expands a rename pattern for the given original filename
// and 1-based index. Placeholders:
//
//	{name}     original name without extension
//	{ext}      original extension, including the dot
//	{fullname} original name, extension included
//	{n}        index
//	{n:03d}    zero-padded index (any width)
//	{date}     current date as YYYYMMDD
//	{time}     current time as HHMMSS
func ApplyPattern(pattern, original string, index int) string {
	return applyPatternAt(pattern, original, index, time.Now())
}

func applyPatternAt(pattern, original string, index int, now time.Time) string {
	ext := filepath.Ext(original)
	name := strings.TrimSuffix(original, ext)

	out := pattern
	out = strings.ReplaceAll(out, "{name}", name)
	out = strings.ReplaceAll(out, "{ext}", ext)
	out = strings.ReplaceAll(out, "{fullname}", original)
	out = strings.ReplaceAll(out, "{date}", now.Format("20060102"))
	out = strings.ReplaceAll(out, "{time}", now.Format("150405"))
	out = paddedIndexRe.ReplaceAllStringFunc(out, func(m string) string {
		width := paddedIndexRe.FindStringSubmatch(m)[1]
		return fmt.Sprintf("%0"+width+"d", index)
	})
	out = strings.ReplaceAll(out, "{n}", fmt.Sprintf("%d", index))
	return out
}
