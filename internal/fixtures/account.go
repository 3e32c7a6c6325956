package fixtures

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Account is a test user as stored in qaUsers.json.
type Account struct {
	UserName     string   `json:"userName" yaml:"userName"`
	UserEmail    string   `json:"userEmail" yaml:"userEmail"`
	UserPassword string   `json:"userPassword" yaml:"userPassword"`
	UserRoles    []string `json:"userRoles" yaml:"userRoles"`
}

// String never includes the password.
func (a Account) String() string {
	return fmt.Sprintf("%s <%s>", a.UserName, a.UserEmail)
}

// LoadAccounts reads a fixture file keyed by account label, e.g. "admin".
// JSON files parse through the YAML decoder since JSON is valid YAML.
func LoadAccounts(path string) (map[string]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading account fixtures: %w", err)
	}
	accounts := map[string]Account{}
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing account fixtures %s: %w", path, err)
	}
	return accounts, nil
}

// LookupAccount returns the account labelled key from path.
func LookupAccount(path, key string) (Account, error) {
	accounts, err := LoadAccounts(path)
	if err != nil {
		return Account{}, err
	}
	acct, ok := accounts[key]
	if !ok {
		return Account{}, fmt.Errorf("account %q not found in %s", key, path)
	}
	return acct, nil
}

// ReadYAML decodes dataDir/filename into out.
func ReadYAML(dataDir, filename string, out any) error {
	data, err := os.ReadFile(filepath.Join(dataDir, filename))
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

const randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn from [A-Za-z0-9].
func RandomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		b.WriteByte(randomAlphabet[idx.Int64()])
	}
	return b.String()
}

// RandomUser returns an account with a random two-part name, a matching
// ethereal.email address and an 18 character password.
func RandomUser() Account {
	first := RandomString(6)
	last := RandomString(6)
	name := first + " " + last
	return Account{
		UserName:     name,
		UserEmail:    EmailForName(name),
		UserPassword: RandomString(18),
		UserRoles:    []string{},
	}
}

// EmailForName derives an ethereal.email address from a user name: lower
// case, with each run of spaces replaced by a dot.
func EmailForName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ".")) + "@ethereal.email"
}

// UniqueToken returns prefix followed by a short random suffix, for content
// titles that must not collide with concurrently running scenarios.
func UniqueToken(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
