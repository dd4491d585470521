// Package dataset stores tables of bindings as msgpack files. A table lists
// its variables once; each row holds one term per variable, with the zero
// Term standing for an unbound variable.
package dataset

import (
	"bufio"
	"io"
	"os"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/expr"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrRowArity  = errors.New("row length differs from variable count")
	ErrTableBusy = errors.New("binding table is being written by another process")
)

const lockSuffix = ".lock"

type Table struct {
	Vars []binding.Var    `msgpack:"vars"`
	Rows [][]binding.Term `msgpack:"rows"`
}

// FromBindings lays rows out over vars. Variables a row does not bind are
// stored unbound; variables not listed in vars are dropped.
func FromBindings(vars []binding.Var, rows []binding.Binding) Table {
	t := Table{Vars: append([]binding.Var(nil), vars...), Rows: make([][]binding.Term, len(rows))}
	for i, b := range rows {
		row := make([]binding.Term, len(vars))
		for j, v := range vars {
			if term, ok := b.Get(v); ok {
				row[j] = term
			}
		}
		t.Rows[i] = row
	}
	return t
}

func (t Table) Bindings() ([]binding.Binding, error) {
	out := make([]binding.Binding, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(t.Vars) {
			return nil, errors.Wrapf(ErrRowArity, "row %d has %d terms for %d variables", i, len(row), len(t.Vars))
		}
		b := binding.New()
		for j, term := range row {
			if term.Kind == 0 {
				continue
			}
			b = b.With(t.Vars[j], term)
		}
		out[i] = b
	}
	return out, nil
}

func (t Table) Iterator() (binding.Iterator, error) {
	rows, err := t.Bindings()
	if err != nil {
		return nil, err
	}
	return binding.NewSliceIterator(rows), nil
}

func Write(w io.Writer, t Table) error {
	return msgpack.NewEncoder(w).Encode(&t)
}

func Read(r io.Reader) (Table, error) {
	var t Table
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return Table{}, errors.Wrap(err, "decode binding table")
	}
	return t, nil
}

// Load reads the table at path under a shared lock on its lock file.
func Load(path string) (Table, error) {
	fl := flock.New(path + lockSuffix)
	held, err := fl.TryRLock()
	if err != nil {
		return Table{}, err
	}
	if !held {
		return Table{}, errors.Wrap(ErrTableBusy, path)
	}
	defer fl.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(bufio.NewReader(f))
	if err != nil {
		return Table{}, errors.WithMessage(err, path)
	}
	return t, nil
}

// Save replaces the table at path, holding an exclusive lock on its lock
// file so that readers never see a partial write.
func Save(path string, t Table) error {
	fl := flock.New(path + lockSuffix)
	held, err := fl.TryLock()
	if err != nil {
		return err
	}
	if !held {
		return errors.Wrap(ErrTableBusy, path)
	}
	defer fl.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Write(w, t); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open loads the table at path and serves its rows.
func Open(path string) (binding.Iterator, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	return t.Iterator()
}

// ObservedBounds widens bm[key] to cover every numeric value e takes over
// the rows of t. Rows where e is unbound or not numeric are skipped; the
// join reports those itself.
func ObservedBounds(bm distance.BoundsMap, key string, t Table, e expr.Expr) error {
	rows, err := t.Bindings()
	if err != nil {
		return err
	}
	for _, b := range rows {
		x, err := expr.Float(e, b)
		if err != nil {
			continue
		}
		bm.Observe(key, x)
	}
	return nil
}
