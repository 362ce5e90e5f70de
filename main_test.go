package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sardine-ai/go-watchface-config/source"
)

func TestNewRepository(t *testing.T) {
	*name = "watchface"
	*path = "testdata/watchface.yaml"
	*URL = "https://example.com/watchface.yaml"
	*bucket = "watchface-bucket"
	defer func() {
		*path, *URL, *bucket = "", "", ""
	}()

	testCases := []struct {
		repoType string
		check    func(source.Repository) bool
	}{
		{"builtin", func(r source.Repository) bool { _, ok := r.(*source.StaticRepository); return ok }},
		{"", func(r source.Repository) bool { _, ok := r.(*source.StaticRepository); return ok }},
		{"fs", func(r source.Repository) bool { _, ok := r.(*source.FileRepository); return ok }},
		{"http", func(r source.Repository) bool { _, ok := r.(*source.WebRepository); return ok }},
		{"git", func(r source.Repository) bool { _, ok := r.(*source.GitRepository); return ok }},
		{"gcs", func(r source.Repository) bool { _, ok := r.(*source.GcpStorageRepository); return ok }},
		{"s3", func(r source.Repository) bool { _, ok := r.(*source.AwsS3Repository); return ok }},
	}
	for _, tc := range testCases {
		t.Run(tc.repoType, func(t *testing.T) {
			repo, err := NewRepository(tc.repoType)
			if err != nil {
				t.Fatal(err)
			}
			if !tc.check(repo) {
				t.Errorf("unexpected repository type %T", repo)
			}
			if repo.GetName() != "watchface" {
				t.Errorf("expected name %q, got %q", "watchface", repo.GetName())
			}
		})
	}

	if _, err := NewRepository("svn"); err == nil {
		t.Error("expected error for unknown repository type")
	}
}

func TestNewRepositoryMissingFlags(t *testing.T) {
	*path, *URL, *bucket = "", "", ""
	for _, repoType := range []string{"fs", "http", "git", "gcs", "s3"} {
		if _, err := NewRepository(repoType); err == nil {
			t.Errorf("%s: expected error when required flags are missing", repoType)
		}
	}
}

func TestSampleDocumentMatchesBuiltin(t *testing.T) {
	*name = "watchface"
	file := source.NewFileRepository(*name, "testdata/watchface.yaml")
	if err := file.Refresh(); err != nil {
		t.Fatal(err)
	}
	builtin := source.NewStaticRepository(*name)
	if err := builtin.Refresh(); err != nil {
		t.Fatal(err)
	}
	fromFile, _ := file.GetSchema()
	fromBuiltin, _ := builtin.GetSchema()
	if diff := cmp.Diff(fromBuiltin, fromFile); diff != "" {
		t.Errorf("sample document differs from the built-in schema (-builtin +file):\n%s", diff)
	}
}
