package chunkstore

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// IngestDir walks root, ingesting every regular file not excluded by
// isIgnored, with bounded fan-out across files (grounded on the
// internal/search.Engine.parallelSearch use of errgroup.WithContext — here
// applied to parallel file reads/chunking rather than parallel queries,
// since Store.Ingest already serializes its own manifest mutation under a
// single mutex). languageFor maps a file's extension to a tree-sitter
// language name, or "" for unsupported/plain-text files.
func (s *Store) IngestDir(ctx context.Context, root string, isIgnored func(relPath string) bool, languageFor func(path string) string) (ingested, skipped int, err error) {
	type job struct {
 path string
 relPath string
	}
	var jobs []job

	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
 if err != nil {
 return err
 }
 if info.IsDir() {
 return nil
 }
 rel, relErr := filepath.Rel(root, path)
 if relErr != nil {
 return relErr
 }
 if isIgnored(rel) {
 return nil
 }
 jobs = append(jobs, job{path: path, relPath: rel})
 return nil
	})
	if walkErr != nil {
 return 0, 0, walkErr
	}

	const maxConcurrency = 8
	sem := make(chan struct{}, maxConcurrency)

	type outcome struct {
 skipped bool
 err error
	}
	results := make([]outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
 i, j := i, j
 g.Go(func() error {
 select {
 case sem <- struct{}{}:
 case <-gctx.Done():
 return gctx.Err()
 }
 defer func() { <-sem }()

 content, readErr := os.ReadFile(j.path)
 if readErr != nil {
 results[i] = outcome{err: readErr}
 return nil
 }
 mtime, mtErr := FileMTime(j.path)
 if mtErr != nil {
 results[i] = outcome{err: mtErr}
 return nil
 }

 skip, ingErr := s.Ingest(gctx, j.relPath, content, languageFor(j.path), mtime)
 results[i] = outcome{skipped: skip, err: ingErr}
 return nil
 })
	}
	if waitErr := g.Wait(); waitErr != nil {
 return 0, 0, waitErr
	}

	for _, r := range results {
 if r.err != nil {
 continue
 }
 if r.skipped {
 skipped++
 } else {
 ingested++
 }
	}
	return ingested, skipped, nil
}
