package account

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store persists the complete account set.
type Store interface {
	Load() ([]Account, error)
	Save([]Account) error
}

// FileStore keeps accounts in a plain text file, one account per line:
//
//	username,password,wins,losses,draws
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads every account from the backing file. A missing file is an
// empty account set, and malformed lines are skipped.
func (fs *FileStore) Load() ([]Account, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open accounts file: %w", err)
	}
	defer f.Close()

	var accounts []Account
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 5 {
			continue
		}
		wins, errW := strconv.Atoi(parts[2])
		losses, errL := strconv.Atoi(parts[3])
		draws, errD := strconv.Atoi(parts[4])
		if errW != nil || errL != nil || errD != nil {
			continue
		}

		accounts = append(accounts, Account{
			Username: parts[0],
			Password: parts[1],
			Wins:     wins,
			Losses:   losses,
			Draws:    draws,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}
	return accounts, nil
}

// Save writes the full account set, replacing the previous file. The
// write goes to a temporary file first and is renamed into place, so a
// crash mid-write cannot truncate existing data.
func (fs *FileStore) Save(accounts []Account) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	for _, a := range accounts {
		fmt.Fprintf(w, "%s,%s,%d,%d,%d\n", a.Username, a.Password, a.Wins, a.Losses, a.Draws)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write accounts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace accounts file: %w", err)
	}
	return nil
}
