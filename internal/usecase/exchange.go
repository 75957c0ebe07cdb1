package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/infra/exchange"
	"github.com/runoshun/treeboard/internal/store"
)

// ExportBoardInput contains the parameters for exporting the board.
type ExportBoardInput struct {
	Path string // .json, .yaml or .yml
}

// ExportBoardOutput summarizes the export.
type ExportBoardOutput struct {
	Path     string
	Tasks    int
	Projects int
}

// ExportBoard is the use case for writing the board to a file.
type ExportBoard struct {
	store *store.Store
	clock domain.Clock
}

// NewExportBoard creates a new ExportBoard use case.
func NewExportBoard(st *store.Store, clock domain.Clock) *ExportBoard {
	return &ExportBoard{store: st, clock: clock}
}

// Execute writes the export file.
func (uc *ExportBoard) Execute(_ context.Context, in ExportBoardInput) (*ExportBoardOutput, error) {
	snap := uc.store.Snapshot()
	f := exchange.Build(snap, uc.store.Settings(), uc.clock.Now())
	if err := exchange.WriteFile(in.Path, f); err != nil {
		return nil, fmt.Errorf("export board: %w", err)
	}
	return &ExportBoardOutput{
		Path:     in.Path,
		Tasks:    len(domain.CollectIDs(snap.Tasks)),
		Projects: len(snap.Projects),
	}, nil
}

// ImportBoardInput contains the parameters for importing a board.
type ImportBoardInput struct {
	Path string // .json, .yaml or .yml
}

// ImportBoardOutput summarizes the import.
type ImportBoardOutput struct {
	Tasks    int
	Projects int
	Teams    int
}

// ImportBoard is the use case for appending an exported board to the store.
type ImportBoard struct {
	store *store.Store
}

// NewImportBoard creates a new ImportBoard use case.
func NewImportBoard(st *store.Store) *ImportBoard {
	return &ImportBoard{store: st}
}

// Execute reads the file and imports it with fresh ids.
func (uc *ImportBoard) Execute(_ context.Context, in ImportBoardInput) (*ImportBoardOutput, error) {
	f, err := exchange.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("import board: %w", err)
	}
	res, err := uc.store.Import(f.ImportData())
	if err != nil {
		return nil, fmt.Errorf("import board: %w", err)
	}
	return &ImportBoardOutput{
		Tasks:    len(res.Tasks),
		Projects: len(res.Projects),
		Teams:    len(res.Teams),
	}, nil
}
