// Package vcs читает состояние локального git репозитория через go-git.
package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Ошибки vcs.
var (
	// ErrNotRepository — каталог не внутри git репозитория.
	ErrNotRepository = errors.New("not a git repository")
)

// open открывает репозиторий, поднимаясь от dir к корню.
func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	return repo, nil
}

// TagExists проверяет, есть ли тег в репозитории, содержащем dir.
func TagExists(dir, tag string) (bool, error) {
	repo, err := open(dir)
	if err != nil {
		return false, err
	}

	_, err = repo.Tag(tag)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, git.ErrTagNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup tag %s: %w", tag, err)
	}
}
