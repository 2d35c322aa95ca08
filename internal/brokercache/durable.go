package brokercache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sys/unix"

	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
)

// durableTier persists cached ApiVersions results across process
// restarts in a BadgerDB, guarded by an exclusive non-blocking flock on
// the data directory so two client processes never share one.
type durableTier struct {
	db       *badger.DB
	lockFile *os.File

	gcTicker *time.Ticker
	stopGC   chan struct{}
}

func openDurableTier(dataDir string, gcInterval time.Duration) (*durableTier, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	lockFile, err := acquireLock(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(filepath.Join(dataDir, "badger"))
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		lockFile.Close()
		return nil, err
	}

	d := &durableTier{db: db, lockFile: lockFile, stopGC: make(chan struct{})}
	if gcInterval > 0 {
		d.gcTicker = time.NewTicker(gcInterval)
		go d.gcLoop()
	}
	return d, nil
}

// acquireLock takes a non-blocking exclusive flock on a ".lock" file in
// dataDir, failing fast if another process already holds it.
func acquireLock(dataDir string) (*os.File, error) {
	lockPath := filepath.Join(dataDir, ".lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (d *durableTier) gcLoop() {
	for {
		select {
		case <-d.gcTicker.C:
			d.runGC()
		case <-d.stopGC:
			return
		}
	}
}

func (d *durableTier) get(endpoint string) ([]protocol.ApiVersion, bool, error) {
	var versions []protocol.ApiVersion
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(endpoint))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, err := decodeVersions(val)
			if err != nil {
				return err
			}
			versions = v
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return versions, versions != nil, nil
}

func (d *durableTier) put(endpoint string, versions []protocol.ApiVersion) error {
	data := encodeVersions(versions)
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(endpoint), data)
	})
}

func (d *durableTier) runGC() error {
	err := d.db.RunValueLogGC(0.5)
	if err == badger.ErrNoRewrite {
		return nil
	}
	return err
}

func (d *durableTier) close() error {
	if d.gcTicker != nil {
		d.gcTicker.Stop()
		close(d.stopGC)
	}
	err := d.db.Close()
	d.lockFile.Close()
	return err
}
