package key

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/BurntSushi/toml"

	"github.com/paul-weiss/zkp/fs"
	"github.com/paul-weiss/zkp/group"
)

// KeyFolderName is the name of the folder where the key pair is stored.
const KeyFolderName = "key"

// GroupFolderName is the name of the folder where the group parameters are
// stored.
const GroupFolderName = "groups"

const keyFileName = "zkp_id"
const privateExtension = ".private"
const publicExtension = ".public"
const paramsFileName = "params.toml"

// ErrAbsent is returned when the store can't find the requested object.
var ErrAbsent = errors.New("store can't find requested object")

// Store abstracts the loading and saving of any cryptographic material used
// by zkp. For the moment only a file based store is implemented.
type Store interface {
	SaveKeyPair(p *Pair) error
	LoadKeyPair() (*Pair, error)
	SavePublic(i *Identity) error
	LoadPublic() (*Identity, error)
	SaveParams(g *group.Params) error
	LoadParams() (*group.Params, error)
}

// Tomler represents any struct that can be (un)marshalled into/from toml
// format
type Tomler interface {
	TOML() interface{}
	FromTOML(i interface{}) error
	TOMLValue() interface{}
}

type fileStore struct {
	baseFolder  string
	privateFile string
	publicFile  string
	paramsFile  string
}

// NewFileStore returns a file based store under the given base folder. The
// key folder is created with tight permissions if it does not exist yet.
func NewFileStore(baseFolder string) Store {
	store := &fileStore{baseFolder: baseFolder}
	keyFolder := fs.CreateSecureFolder(path.Join(baseFolder, KeyFolderName))
	groupFolder := fs.CreateSecureFolder(path.Join(baseFolder, GroupFolderName))
	store.privateFile = path.Join(keyFolder, keyFileName+privateExtension)
	store.publicFile = path.Join(keyFolder, keyFileName+publicExtension)
	store.paramsFile = path.Join(groupFolder, paramsFileName)
	return store
}

// SaveKeyPair first saves the private key in a file with tight permissions
// and then saves the public part in another file.
func (f *fileStore) SaveKeyPair(p *Pair) error {
	if err := Save(f.privateFile, p, true); err != nil {
		return err
	}
	return Save(f.publicFile, p.Public, false)
}

// LoadKeyPair decodes the private key first, then the public part.
func (f *fileStore) LoadKeyPair() (*Pair, error) {
	p := new(Pair)
	if err := Load(f.privateFile, p); err != nil {
		return nil, err
	}
	return p, Load(f.publicFile, p.Public)
}

func (f *fileStore) SavePublic(i *Identity) error {
	return Save(f.publicFile, i, false)
}

func (f *fileStore) LoadPublic() (*Identity, error) {
	i := new(Identity)
	return i, Load(f.publicFile, i)
}

func (f *fileStore) SaveParams(g *group.Params) error {
	return Save(f.paramsFile, g, false)
}

func (f *fileStore) LoadParams() (*group.Params, error) {
	g := new(group.Params)
	return g, Load(f.paramsFile, g)
}

// Save the given Tomler interface to the given path. If secure is true, the
// file is created with tight permissions.
func Save(filePath string, t Tomler, secure bool) error {
	var fd *os.File
	var err error
	if secure {
		fd, err = fs.CreateSecureFile(filePath)
	} else {
		fd, err = os.Create(filePath)
	}
	if err != nil {
		return fmt.Errorf("config: can't save to %s: %w", filePath, err)
	}
	defer fd.Close()
	return toml.NewEncoder(fd).Encode(t.TOML())
}

// Load the given Tomler from the given file path.
func Load(filePath string, t Tomler) error {
	tomlValue := t.TOMLValue()
	var err error
	if _, err = toml.DecodeFile(filePath, tomlValue); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", filePath, ErrAbsent)
		}
		return err
	}
	return t.FromTOML(tomlValue)
}
