package store_test

import (
	"sync"
	"testing"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) store.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Save_and_Load", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.Save("gray", "uid % 10 == 1"))

		got, err := s.Load("gray")
		require.NoError(t, err)
		assert.Equal(t, "uid % 10 == 1", got)
	})

	t.Run(name+"/Load_NotFound", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.Load("missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/Save_EmptyName", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		assert.ErrorIs(t, s.Save("", "1"), store.ErrEmptyName)
	})

	t.Run(name+"/Save_Overwrite_BumpsVersion", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.Save("gray", "uid % 10 == 0"))
		require.NoError(t, s.Save("gray", "uid % 10 == 1"))

		got, err := s.Load("gray")
		require.NoError(t, err)
		assert.Equal(t, "uid % 10 == 1", got)

		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, 2, infos[0].Version)
		assert.Equal(t, int64(len("uid % 10 == 1")), infos[0].Size)
		assert.False(t, infos[0].UpdatedAt.IsZero())
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		infos, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run(name+"/List_OrderedByName", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.Save("zeta", "1"))
		require.NoError(t, s.Save("alpha", "2"))
		require.NoError(t, s.Save("mid", "3"))

		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 3)
		assert.Equal(t, "alpha", infos[0].Name)
		assert.Equal(t, "mid", infos[1].Name)
		assert.Equal(t, "zeta", infos[2].Name)
		assert.Equal(t, 1, infos[0].Version)
	})

	t.Run(name+"/Delete", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.Save("gray", "1"))
		require.NoError(t, s.Delete("gray"))

		_, err := s.Load("gray")
		assert.ErrorIs(t, err, store.ErrNotFound)

		// Deleting a missing rule is not an error.
		assert.NoError(t, s.Delete("gray"))
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.Save("a", "1"), store.ErrStoreClosed)
		_, err := s.Load("a")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		_, err = s.List()
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		assert.ErrorIs(t, s.Delete("a"), store.ErrStoreClosed)
	})

	t.Run(name+"/Concurrent", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					assert.NoError(t, s.Save("shared", "1 + 1"))
					_, err := s.Load("shared")
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, workers*10, infos[0].Version)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) store.Store {
		s, err := store.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return s
	})
}

func TestMemoryStore_Len(t *testing.T) {
	s := store.NewMemoryStore()
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Save("a", "1"))
	require.NoError(t, s.Save("b", "2"))
	require.NoError(t, s.Save("a", "3"))
	assert.Equal(t, 2, s.Len())
}
