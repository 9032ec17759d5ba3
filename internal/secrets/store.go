// Package secrets keeps remote sink credentials in a per-user file (0600),
// obfuscated with AES-GCM. It is not a keychain replacement; it only keeps
// tokens out of the plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const fileName = "tokens.json"

var ErrNotFound = errors.New("secrets: token not found")

type tokenFile struct {
	Tokens map[string]string `json:"tokens"` // sink -> base64(ciphertext)
}

// Store is a token file inside Dir.
type Store struct {
	Dir string
}

// Default is the store under the user config dir.
func Default() (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: filepath.Join(dir, "practicum")}, nil
}

func (s Store) Put(sink, token string) error {
	if sink = norm(sink); sink == "" {
		return fmt.Errorf("secrets: sink required")
	}
	path, err := s.path()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	tf.Tokens[sink] = base64.StdEncoding.EncodeToString(ct)
	return save(path, tf)
}

func (s Store) Get(sink string) (string, error) {
	if sink = norm(sink); sink == "" {
		return "", fmt.Errorf("secrets: sink required")
	}
	path, err := s.path()
	if err != nil {
		return "", err
	}
	tf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := tf.Tokens[sink]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, sink)
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode %s: %w", sink, err)
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt %s: %w", sink, err)
	}
	return string(pt), nil
}

func (s Store) Delete(sink string) error {
	if sink = norm(sink); sink == "" {
		return fmt.Errorf("secrets: sink required")
	}
	path, err := s.path()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	delete(tf.Tokens, sink)
	return save(path, tf)
}

// Resolve prefers the environment variable envName and falls back to the
// stored token for sink. A missing token is not an error.
func (s Store) Resolve(envName, sink string) (string, error) {
	if envName != "" {
		if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
			return v, nil
		}
	}
	tok, err := s.Get(sink)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return tok, err
}

func (s Store) path() (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("secrets: no directory")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, fileName), nil
}

func load(path string) (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokenFile{}, nil
		}
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("secrets: parse %s: %w", path, err)
	}
	return tf, nil
}

func save(path string, tf tokenFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey() []byte {
	base := fmt.Sprintf("practicum-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
