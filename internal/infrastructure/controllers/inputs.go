package controllers

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const stdinArgument = "-"

// attachNotices logs the user-facing notices of the workspace while a command runs.
func attachNotices(workspace *entities.Workspace) func() {
	return workspace.Bus.Subscribe(func(event entities.Event) {
		if event.Kind != entities.EventNotice {
			return
		}
		switch event.Level {
		case entities.NoticeWarning, entities.NoticeDanger:
			logger.Warn(event.Message)
		default:
			logger.Info(event.Message)
		}
	})
}

// addInputFlags adds the flags shared by every command that imports content.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("file", "f", nil, "Load a component list or lock file (repeatable)")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, json, or markdown")
}

// importInputs feeds every argument and every --file to the importer. "-" reads stdin.
// It returns the number of inputs that failed.
func importInputs(ctx context.Context, cmd *cobra.Command, importer commands.Import, args []string) int {
	failures := 0
	for _, arg := range args {
		content := arg
		if arg == stdinArgument {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				logger.Errorf("Failed to read stdin: %v", err)
				failures++
				continue
			}
			content = string(data)
		}

		result, err := importer.Import(ctx, content)
		if err != nil {
			logger.Errorf("Import of %q failed: %v", abbreviate(arg), err)
			failures++
			continue
		}
		logger.Infof("Imported %q as %s (%d components)", abbreviate(arg), result.Kind, len(result.Coordinates))
	}

	paths, _ := cmd.Flags().GetStringArray("file")
	if len(paths) == 0 {
		return failures
	}
	files, err := readFiles(paths)
	if err != nil {
		logger.Errorf("%v", err)
		return failures + 1
	}
	result, err := importer.ImportFiles(ctx, files)
	if err != nil {
		logger.Errorf("Import of files failed: %v", err)
		return failures + 1
	}
	return failures + len(result.Rejected) + len(result.Invalid)
}

func readFiles(paths []string) ([]entities.DroppedFile, error) {
	files := make([]entities.DroppedFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		files = append(files, entities.DroppedFile{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     content,
		})
	}
	return files, nil
}

func abbreviate(value string) string {
	const limit = 60
	return truncate(value, limit)
}
