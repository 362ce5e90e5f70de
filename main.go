package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sardine-ai/go-watchface-config/server"
	"github.com/sardine-ai/go-watchface-config/source"
	"github.com/sirupsen/logrus"
)

var addr = flag.String("addr", ":8080", "address to listen on")

var authKey = flag.String("auth_key", "", "auth key for the server")

var repoType = flag.String("repo_type", "builtin", "repository type: builtin, fs, http, git, gcs or s3")

var name = flag.String("name", "watchface", "name of the schema, served at /<name>")

var path = flag.String("path", "", "path to the schema document (file, path in git repository, or object name)")

var URL = flag.String("url", "", "url of the schema document or git repository")

var branch = flag.String("branch", "", "git branch")

var bucket = flag.String("bucket", "", "gcs or s3 bucket")

var region = flag.String("region", "", "s3 region")

var refreshInterval = flag.Duration("refresh_interval", 30*time.Second, "how often the schema is reloaded")

var logLevel = flag.String("log_level", "info", "log level")

func main() {
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}
	logrus.SetLevel(level)

	repository, err := NewRepository(*repoType)
	if err != nil {
		logrus.WithError(err).Fatal("error creating repository")
	}

	s := server.NewServer(context.Background(), []source.Repository{repository}, *refreshInterval)
	defer s.Stop()
	s.AuthKey = *authKey

	if err := s.Start(*addr); err != nil {
		logrus.WithError(err).Fatal("error starting server")
	}
}

func NewRepository(repoType string) (source.Repository, error) {
	switch repoType {
	case "builtin", "":
		return source.NewStaticRepository(*name), nil
	case "fs":
		if *path == "" {
			return nil, fmt.Errorf("path is required")
		}
		return source.NewFileRepository(*name, *path), nil
	case "http":
		if *URL == "" {
			return nil, fmt.Errorf("url is required")
		}
		repo, err := source.NewWebRepository(*name, *URL)
		if err != nil {
			return nil, err
		}
		repo.APIKey = os.Getenv("WATCHFACE_CONFIG_API_KEY")
		return repo, nil
	case "git":
		if *URL == "" {
			return nil, fmt.Errorf("url is required")
		}
		return source.NewGitRepository(*name, *URL, *path, *branch)
	case "gcs":
		if *bucket == "" || *path == "" {
			return nil, fmt.Errorf("bucket and path are required")
		}
		return &source.GcpStorageRepository{Name: *name, BucketName: *bucket, ObjectName: *path}, nil
	case "s3":
		if *bucket == "" || *path == "" {
			return nil, fmt.Errorf("bucket and path are required")
		}
		return &source.AwsS3Repository{Name: *name, BucketName: *bucket, ObjectName: *path, Region: *region}, nil
	default:
		return nil, fmt.Errorf("unknown repository type %q", repoType)
	}
}
