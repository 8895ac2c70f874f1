package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// WriteContext outputs a project context profile. Table-oriented formats fall
// back to the text rendering since the profile is a single record.
func WriteContext(pc *schema.ProjectContext, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, pc)
		}, "JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeContextText(w, pc, cfg)
	}, "context")
}

func writeContextText(w io.Writer, pc *schema.ProjectContext, cfg *contract.Config) error {
	printHeader(w, cfg, "Project context")

	if len(pc.Technologies) > 0 {
		if _, err := fmt.Fprintf(w, "Technologies: %s\n", strings.Join(pc.Technologies, ", ")); err != nil {
			return err
		}
	}
	if !pc.LastCommitDate.IsZero() {
		if _, err := fmt.Fprintf(w, "Last commit: %s\n", pc.LastCommitDate.Format(time.DateOnly)); err != nil {
			return err
		}
	}

	if len(pc.ReadmeFiles) > 0 {
		names := make([]string, 0, len(pc.ReadmeFiles))
		for name := range pc.ReadmeFiles {
			names = append(names, name)
		}
		sort.Strings(names)
		if _, err := fmt.Fprintf(w, "Documentation files: %s\n", strings.Join(names, ", ")); err != nil {
			return err
		}
	}

	if pc.Structure != "" {
		if _, err := fmt.Fprintf(w, "\nStructure:\n%s\n", pc.Structure); err != nil {
			return err
		}
	}
	return nil
}
