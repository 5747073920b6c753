// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/lvldb"
	"github.com/arkive-net/arkive/storage"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(storage.NewContext(db))
}

func TestAdd(t *testing.T) {
	svc := newService(t)
	content := arkive.BytesToBytes32([]byte("content"))
	op1 := arkive.BytesToAddress([]byte("op1"))
	op2 := arkive.BytesToAddress([]byte("op2"))

	require.NoError(t, svc.Add(content, op1))
	require.NoError(t, svc.Add(content, op2))
	// duplicates are kept, the list is the raw append log
	require.NoError(t, svc.Add(content, op1))

	archivers, err := svc.ArchiversFor(content)
	require.NoError(t, err)
	assert.Equal(t, []arkive.Address{op1, op2, op1}, archivers)
}

func TestArchiversForUnknown(t *testing.T) {
	svc := newService(t)

	archivers, err := svc.ArchiversFor(arkive.BytesToBytes32([]byte("unknown")))
	require.NoError(t, err)
	assert.Empty(t, archivers)
}
