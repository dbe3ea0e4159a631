// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogport/internal/model"
)

func TestProcessCSVImportsRows(t *testing.T) {
	f := newImporterFixture(t)
	csvData := "ID,Title,Content,Status\n" +
		"1,First post,<p>one</p>,publish\n" +
		"2,Second post,<p>two</p>,draft\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.False(t, result.HasErrors())
	assert.Len(t, result.PostIDs, 2)
}

func TestProcessCSVEmptyFile(t *testing.T) {
	f := newImporterFixture(t)
	_, err := f.im.ProcessCSV(context.Background(), strings.NewReader(""), noImages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestProcessCSVSkipsRowsWithoutTitle(t *testing.T) {
	f := newImporterFixture(t)
	csvData := "ID,Title\n" +
		"1,Real post\n" +
		"2,\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.False(t, result.HasErrors())
}

func TestProcessCSVRerunIsIdempotent(t *testing.T) {
	posts := newFakePostStore()
	terms := newFakeTermStore()
	media := newFakeMediaStore()
	csvData := "ID,Title\n1,Once\n2,Twice\n"

	first := NewImporter(posts, terms, media, nil, testLogger())
	result, err := first.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)

	// A second run over the same file only skips.
	second := NewImporter(posts, terms, media, nil, testLogger())
	result, err = second.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)

	assert.Zero(t, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.PostIDs)
	assert.Len(t, posts.posts, 2)
}

func TestProcessCSVRowFailureDoesNotAbortBatch(t *testing.T) {
	f := newImporterFixture(t)
	f.terms.termErr = assert.AnError

	csvData := "ID,Title,Categories\n" +
		"1,Fails,News\n" +
		"2,Succeeds,\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 2")
	assert.Contains(t, result.Errors[0], "Fails")
}

func TestProcessCSVShortAndLongRows(t *testing.T) {
	f := newImporterFixture(t)
	csvData := "ID,Title,Content\n" +
		"1,Short row\n" +
		"2,Long row,<p>body</p>,extra cell\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.False(t, result.HasErrors())
}

func TestProcessCSVBOMHeader(t *testing.T) {
	f := newImporterFixture(t)
	csvData := "\uFEFFID,Title\n9,BOM post\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	id := result.PostIDs[0]
	assert.Equal(t, "9", f.posts.meta[id][model.MetaOriginalID])
}

func TestProcessCSVSpanishHeaders(t *testing.T) {
	f := newImporterFixture(t)
	csvData := "ID,Title,Categorías,Etiquetas\n" +
		"1,Hola,Noticias|Eventos,go\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	id := result.PostIDs[0]
	assert.Len(t, f.terms.assigned[id], 2)
	assert.Equal(t, []string{"go"}, f.terms.tags[id])
}

func TestProcessCSVCleansContent(t *testing.T) {
	f := newImporterFixture(t)
	csvData := `ID,Title,Content` + "\n" +
		`1,Clean me,"<div class=""elementor-widget"">junk</div><p>kept</p>"` + "\n"

	result, err := f.im.ProcessCSV(context.Background(), strings.NewReader(csvData), noImages())
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	content := f.posts.posts[result.PostIDs[0]].Content
	assert.NotContains(t, content, "elementor")
	assert.Contains(t, content, "kept")
}
