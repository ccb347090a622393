package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/docqa"
)

func main() {
	themes := []string{"plain"}
	root := "testdata"
	var paths []string
	themesByBase := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
			return nil
		}
		if strings.HasSuffix(path, ".golden") {
			if base, theme, ok := parseGoldenTheme(root, path); ok {
				themesByBase[base] = append(themesByBase[base], theme)
			}
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no answer files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		base := goldenBase(root, path)
		useThemes := themesByBase[base]
		if len(useThemes) == 0 {
			useThemes = themes
		}
		for _, name := range useThemes {
			theme, ok := docqa.ThemeByName(name)
			if !ok {
				fatalf("%s: unknown theme %q", path, name)
			}
			r := docqa.NewRenderer(docqa.WithTheme(theme))
			out := r.Render(docqa.DecodeText(src))
			goldenPath := filepath.Join(root, base+"."+name+".golden")
			if err := os.WriteFile(goldenPath, []byte(out+"\n"), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func goldenBase(root, mdPath string) string {
	rel, err := filepath.Rel(root, mdPath)
	if err != nil {
		rel = mdPath
	}
	name := strings.TrimSuffix(rel, ".md")
	return strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// parseGoldenTheme splits "<base>.<theme>.golden".
func parseGoldenTheme(root, goldenPath string) (string, string, bool) {
	rel, err := filepath.Rel(root, goldenPath)
	if err != nil {
		return "", "", false
	}
	name := strings.TrimSuffix(filepath.ToSlash(rel), ".golden")
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}
