package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")

	s, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SavePersonalData("Ana Paula", "52998224725", "11999998888", "ana@clinica.com"))
	require.NoError(t, s.SaveChargeID("pay_123"))
	require.NoError(t, s.SetAccessGranted(true))

	// "reload": uma instância nova lendo o mesmo arquivo
	s2, err := NewStore(path)
	require.NoError(t, err)

	name, cpf, phone, email := s2.PersonalData()
	assert.Equal(t, "Ana Paula", name)
	assert.Equal(t, "52998224725", cpf)
	assert.Equal(t, "11999998888", phone)
	assert.Equal(t, "ana@clinica.com", email)
	assert.Equal(t, "pay_123", s2.ChargeID())
	assert.True(t, s2.AccessGranted())
}

func TestStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nao-existe", "estado.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.ChargeID())
	assert.False(t, s.AccessGranted())
}

func TestStoreCorruptFileFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")
	require.NoError(t, os.WriteFile(path, []byte("{ nada a ver"), 0o644))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")

	s, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SaveChargeID("pay_123"))
	require.NoError(t, s.SetAccessGranted(true))
	require.NoError(t, s.Clear())

	assert.Empty(t, s.ChargeID())
	assert.False(t, s.AccessGranted())

	// o arquivo também ficou zerado, não só a memória
	s2, err := NewStore(path)
	require.NoError(t, err)
	assert.Empty(t, s2.ChargeID())
	assert.False(t, s2.AccessGranted())
}

func TestStoreWriteIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveChargeID("pay_123"))

	// sem arquivo .tmp sobrando depois do rename
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
