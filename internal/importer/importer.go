// Package importer reconciles the flashcards of a chapter with a notes
// source: a local directory of markdown files, or a git repository that
// gets mirrored locally first.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgoyard/prepanote/internal/cardhash"
	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/gitsource"
	"github.com/rgoyard/prepanote/internal/parser"
	"github.com/rgoyard/prepanote/internal/storage"
)

// Report summarises one reconciliation run.
type Report struct {
	Parsed     int      `json:"parsed"`
	Inserted   int      `json:"inserted"`
	Deleted    int      `json:"deleted"`
	Kept       int      `json:"kept"`
	FileErrors []string `json:"file_errors,omitempty"`
}

// Importer scans notes sources and keeps chapter flashcards in step
// with them.
type Importer struct {
	db       *storage.DB
	reposDir string
}

func New(db *storage.DB, reposDir string) *Importer {
	return &Importer{db: db, reposDir: reposDir}
}

// Run imports the cards found under source into the given chapter.
// source is either a directory path or a git URL; git sources are
// cloned or pulled under the importer's repos directory first.
//
// Cards are identified by their content hash: cards already present are
// left untouched, new ones are inserted, and imported cards whose notes
// have disappeared are deleted unless they have been reviewed at least
// once. Reviewed cards keep their scheduling state even when the notes
// move on.
func (im *Importer) Run(ctx context.Context, chapterID int64, source string) (*Report, error) {
	if _, err := im.db.ChapterByID(chapterID); err != nil {
		return nil, err
	}

	dir := source
	if gitsource.IsRemote(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Mirror(ctx, source, localPath); err != nil {
			return nil, err
		}
		dir = localPath
	}

	report := &Report{}
	foundHashes := make(map[string]bool)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.FileErrors = append(report.FileErrors, fmt.Sprintf("%s: %v", path, parseErr))
			return nil
		}
		for _, card := range cards {
			card.Hash = cardhash.Hash(card)
			report.Parsed++
			foundHashes[card.Hash] = true

			inserted, err := im.insertIfNew(chapterID, card)
			if err != nil {
				report.FileErrors = append(report.FileErrors, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			if inserted {
				report.Inserted++
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk notes directory %s: %w", dir, walkErr)
	}

	if err := im.pruneOrphans(chapterID, foundHashes, report); err != nil {
		return nil, err
	}

	slog.Info("import complete",
		"chapter_id", chapterID,
		"source", source,
		"parsed", report.Parsed,
		"inserted", report.Inserted,
		"deleted", report.Deleted,
		"errors", len(report.FileErrors),
	)
	return report, nil
}

func (im *Importer) insertIfNew(chapterID int64, card domain.Card) (bool, error) {
	_, err := im.db.FlashcardBySourceHash(chapterID, card.Hash)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	question := card.Question
	if card.Context != "" {
		question = card.Context + "\n\n" + card.Question
	}
	difficulty := card.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	if _, err := im.db.CreateFlashcard(chapterID, question, card.Answer, difficulty, card.Hash); err != nil {
		return false, err
	}
	return true, nil
}

// pruneOrphans deletes imported cards whose notes no longer exist, but
// never a card that has already been reviewed.
func (im *Importer) pruneOrphans(chapterID int64, foundHashes map[string]bool, report *Report) error {
	imported, err := im.db.ImportedFlashcards(chapterID)
	if err != nil {
		return err
	}
	for _, card := range imported {
		if foundHashes[card.SourceHash] {
			continue
		}
		if card.ReviewCount > 0 {
			report.Kept++
			continue
		}
		if err := im.db.DeleteFlashcard(card.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("failed to delete orphaned flashcard", "id", card.ID, "error", err)
			continue
		}
		report.Deleted++
	}
	return nil
}
