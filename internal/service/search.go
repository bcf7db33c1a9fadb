package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/search"
	"github.com/campusmoves/campusmoves-server/internal/store"
)

// SearchService bridges the move store and the search index. It implements
// the store's indexer hook, so every move write lands in the index, and
// serves queries for the search endpoint.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// IndexMove adds or updates a move in the search index.
func (s *SearchService) IndexMove(_ context.Context, move *domain.Move) error {
	return s.index.IndexDocument(search.MoveToSearchDocument(move))
}

// DeleteMove removes a move from the search index.
func (s *SearchService) DeleteMove(_ context.Context, moveID string) error {
	return s.index.DeleteDocument(moveID)
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the index from every stored move. Run at startup when
// the index is empty or its mapping version changed.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return fmt.Errorf("list moves: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(moves))
	for i := range moves {
		docs = append(docs, search.MoveToSearchDocument(&moves[i]))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index moves: %w", err)
	}

	s.logger.Info("search index rebuilt", "count", len(docs))
	return nil
}

// Count returns the number of indexed moves.
func (s *SearchService) Count() (uint64, error) {
	return s.index.DocumentCount()
}
