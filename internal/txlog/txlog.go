// Package txlog appends transaction hashes to per-network, per-swap text files.
//
// Layout: <root>/<Network-Name>/Tx_<Swap-Name>.txt, one hash per line. Files are
// only ever appended to.
package txlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Store struct {
	root string
	mu   sync.Mutex
}

func New(root string) *Store {
	if strings.TrimSpace(root) == "" {
		root = "Tx_Hash"
	}
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

// Path returns the file that holds hashes for (network, swap).
func (s *Store) Path(network, swap string) string {
	return filepath.Join(s.root, dashed(network), "Tx_"+dashed(swap)+".txt")
}

// Append writes one hash line, creating directories and the file as needed.
func (s *Store) Append(network, swap, txHash string) error {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return errors.New("txlog: empty tx hash")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Path(network, swap)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("txlog: mkdir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("txlog: open: %w", err)
	}
	if _, err := f.WriteString(txHash + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("txlog: write: %w", err)
	}
	return f.Close()
}

// Lines reads back every hash stored for (network, swap). A missing file is empty.
func (s *Store) Lines(network, swap string) ([]string, error) {
	f, err := os.Open(s.Path(network, swap))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("txlog: open: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

func dashed(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
