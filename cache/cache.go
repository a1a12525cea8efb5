// Package cache stores a normalized dataset in a local badger database so
// query runs do not re-parse the CSV export.
package cache

import (
	bin "encoding/binary"
	"os"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/socialekaart/sokaart/cache/binary"
	"github.com/socialekaart/sokaart/org"
)

const orgKeyPrefix = 'o'

var namesKey = []byte("!names")

var ErrEmptyCache = errors.New("cache holds no dataset")

type Cache struct {
	db *badger.DB
}

func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating cache dir %s", path)
	}
	opts := badger.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening cache %s", path)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func orgKey(id int) []byte {
	key := make([]byte, 5)
	key[0] = orgKeyPrefix
	bin.BigEndian.PutUint32(key[1:], uint32(id))
	return key
}

// PutDataset replaces the cached dataset. Organisations keep their ids as
// keys, in big-endian order, so iteration returns insertion order.
func (c *Cache) PutDataset(orgs []*org.Organisation, names *binary.Names) error {
	if err := c.db.DropAll(); err != nil {
		return errors.Wrap(err, "clearing cache")
	}

	// badger limits txn sizes, write in chunks
	for start := 0; start < len(orgs); start += 1000 {
		end := start + 1000
		if end > len(orgs) {
			end = len(orgs)
		}
		err := c.db.Update(func(txn *badger.Txn) error {
			for _, o := range orgs[start:end] {
				data, err := binary.MarshalOrganisation(o)
				if err != nil {
					return err
				}
				if err := txn.Set(orgKey(o.Id), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "writing organisations to cache")
		}
	}

	data, err := binary.MarshalNames(names)
	if err != nil {
		return err
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(namesKey, data)
	})
	return errors.Wrap(err, "writing names to cache")
}

// Organisations returns the cached organisations in insertion order.
func (c *Cache) Organisations() ([]*org.Organisation, error) {
	var orgs []*org.Organisation
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte{orgKeyPrefix}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := int(bin.BigEndian.Uint32(item.Key()[1:]))
			err := item.Value(func(val []byte) error {
				o, err := binary.UnmarshalOrganisation(id, val)
				if err != nil {
					return err
				}
				orgs = append(orgs, o)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading organisations from cache")
	}
	return orgs, nil
}

// Names returns the cached vocabularies, or ErrEmptyCache.
func (c *Cache) Names() (*binary.Names, error) {
	var names *binary.Names
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(namesKey)
		if err == badger.ErrKeyNotFound {
			return ErrEmptyCache
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			names, err = binary.UnmarshalNames(val)
			return err
		})
	})
	if err == ErrEmptyCache {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading names from cache")
	}
	return names, nil
}
