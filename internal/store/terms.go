// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogport/internal/model"
	"blogport/internal/util"
)

// TermStore persists categories and tags.
type TermStore struct {
	db *sql.DB
}

// NewTermStore creates a new TermStore.
func NewTermStore(db *sql.DB) *TermStore {
	return &TermStore{db: db}
}

// FindOrCreateTerm returns the id of the term with the given name in the
// given taxonomy, creating it if necessary. Lookup is by slug so that
// differently cased or accented spellings resolve to one term.
func (s *TermStore) FindOrCreateTerm(ctx context.Context, name, taxonomy string) (int64, error) {
	slug := util.Slugify(name)
	if !util.IsValidSlug(slug) {
		return 0, fmt.Errorf("term name %q produces no usable slug", name)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up term %q: %w", name, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (name, slug, taxonomy, created_at) VALUES (?, ?, ?, ?)`,
		name, slug, taxonomy, time.Now())
	if err != nil {
		return 0, fmt.Errorf("creating term %q: %w", name, err)
	}
	return res.LastInsertId()
}

// AssignTerms links a post to a set of terms. Existing links are kept.
func (s *TermStore) AssignTerms(ctx context.Context, postID int64, termIDs []int64) error {
	for _, termID := range termIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO post_terms (post_id, term_id) VALUES (?, ?)
			ON CONFLICT (post_id, term_id) DO NOTHING`,
			postID, termID)
		if err != nil {
			return fmt.Errorf("assigning term %d to post %d: %w", termID, postID, err)
		}
	}
	return nil
}

// AssignTags assigns tag names to a post, creating missing tags implicitly.
func (s *TermStore) AssignTags(ctx context.Context, postID int64, names []string) error {
	var ids []int64
	for _, name := range names {
		id, err := s.FindOrCreateTerm(ctx, name, model.TaxonomyTag)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return s.AssignTerms(ctx, postID, ids)
}

// TermsForPost returns the terms of one taxonomy linked to a post.
func (s *TermStore) TermsForPost(ctx context.Context, postID int64, taxonomy string) ([]model.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.taxonomy, t.created_at
		FROM terms t
		JOIN post_terms pt ON pt.term_id = t.id
		WHERE pt.post_id = ? AND t.taxonomy = ?
		ORDER BY t.name`, postID, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("listing terms for post %d: %w", postID, err)
	}
	defer func() { _ = rows.Close() }()

	var terms []model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Taxonomy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terms: %w", err)
	}
	return terms, nil
}
