package app

import (
	"context"
	"strings"

	"quiz-studio-service/internal/domain"
	"quiz-studio-service/internal/quizlogic"
)

// FolderStore persists folders and the quiz_folders links.
type FolderStore interface {
	CreateFolder(ctx context.Context, ownerID int64, name string) (domain.Folder, error)
	ListFolders(ctx context.Context, ownerID int64) ([]domain.Folder, error)
	FolderWithQuizzes(ctx context.Context, ownerID, folderID int64) (domain.FolderContents, error)
	DeleteFolder(ctx context.Context, ownerID, folderID int64) ([]int64, error)
	DeleteFolders(ctx context.Context, ownerID int64, folderIDs []int64) (int64, []int64, error)
	RemoveQuizzesFromFolder(ctx context.Context, ownerID, folderID int64, quizIDs []int64) (int64, error)
	AddQuizzesToFolder(ctx context.Context, ownerID, folderID int64, quizIDs []int64) (int64, error)
}

// FolderService manages folders and which quizzes they contain. Folders never
// own quizzes: deleting one only drops its links.
type FolderService struct {
	folders FolderStore
	quizzes QuizStore
	cache   QuizRepository
}

func NewFolderService(folders FolderStore, quizzes QuizStore, cache QuizRepository) *FolderService {
	return &FolderService{folders: folders, quizzes: quizzes, cache: cache}
}

func (s *FolderService) CreateFolder(ctx context.Context, ownerID int64, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, domain.Invalid("folder name is required")
	}
	return s.folders.CreateFolder(ctx, ownerID, name)
}

func (s *FolderService) ListFolders(ctx context.Context, ownerID int64) ([]domain.Folder, error) {
	return s.folders.ListFolders(ctx, ownerID)
}

func (s *FolderService) GetFolderWithQuizzes(ctx context.Context, ownerID, folderID int64) (domain.FolderContents, error) {
	return s.folders.FolderWithQuizzes(ctx, ownerID, folderID)
}

func (s *FolderService) DeleteFolder(ctx context.Context, ownerID, folderID int64) error {
	linked, err := s.folders.DeleteFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, linked...)
	return nil
}

// BulkDeleteFolders deletes the caller's folders among folderIDs and returns how many were removed.
func (s *FolderService) BulkDeleteFolders(ctx context.Context, ownerID int64, folderIDs []int64) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, domain.Invalid("folderIds must not be empty")
	}
	n, linked, err := s.folders.DeleteFolders(ctx, ownerID, folderIDs)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, linked...)
	return n, nil
}

func (s *FolderService) RemoveQuizzesFromFolder(ctx context.Context, ownerID, folderID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.Invalid("quizIds must not be empty")
	}
	n, err := s.folders.RemoveQuizzesFromFolder(ctx, ownerID, folderID, ids)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, ids...)
	return n, nil
}

func (s *FolderService) AddQuizzesToFolder(ctx context.Context, ownerID, folderID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.Invalid("quizIds must not be empty")
	}
	n, err := s.folders.AddQuizzesToFolder(ctx, ownerID, folderID, ids)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, ids...)
	return n, nil
}

// Dashboard lists all folders and all quizzes of the user. A non-empty search
// keeps only entries whose name contains it, ignoring case and accents.
func (s *FolderService) Dashboard(ctx context.Context, ownerID int64, search string) (domain.Dashboard, error) {
	folders, err := s.folders.ListFolders(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	quizzes, err := s.quizzes.ListQuizzes(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, err
	}

	needle := quizlogic.NormalizeText(strings.TrimSpace(search))
	if needle == "" {
		return domain.Dashboard{Folders: folders, Quizzes: quizzes}, nil
	}

	board := domain.Dashboard{Folders: []domain.Folder{}, Quizzes: []domain.QuizSummary{}}
	for _, f := range folders {
		if strings.Contains(quizlogic.NormalizeText(f.Name), needle) {
			board.Folders = append(board.Folders, f)
		}
	}
	for _, q := range quizzes {
		if strings.Contains(quizlogic.NormalizeText(q.Title), needle) {
			board.Quizzes = append(board.Quizzes, q)
		}
	}
	return board, nil
}
