package datasetcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const keyPrefix = "planscope:dataset"

type FileDescriptor struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

func DescribeFile(path string) (FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileDescriptor{}, err
	}

	return FileDescriptor{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// IsPlansFile matches plans.xml and output_plans.xml, optionally gzip or xz
// compressed
func IsPlansFile(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, suffix := range []string{".gz", ".xz"} {
		base = strings.TrimSuffix(base, suffix)
	}

	return strings.HasSuffix(base, "plans.xml")
}

// BuildDatasetKey derives the cache key from the plans file of a file set.
// It returns false when the set holds no plans file.
func BuildDatasetKey(files []FileDescriptor) (string, bool) {
	var plans []FileDescriptor
	for _, file := range files {
		if IsPlansFile(file.Name) {
			plans = append(plans, file)
		}
	}

	if len(plans) == 0 {
		return "", false
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Name < plans[j].Name
	})
	chosen := plans[0]

	return fmt.Sprintf("%s:%s:%d:%d", keyPrefix, filepath.Base(chosen.Name), chosen.Size, chosen.ModTime.UnixMilli()), true
}

// DescribeAuxiliary renders the descriptor of a file that shapes the cached
// persons without being part of the dataset key, "none" when absent
func DescribeAuxiliary(file *FileDescriptor) string {
	if file == nil {
		return "none"
	}

	return fmt.Sprintf("%s:%d:%d", filepath.Base(file.Name), file.Size, file.ModTime.UnixMilli())
}
