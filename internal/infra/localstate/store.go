// Package localstate guarda o estado local que sobrevive a reload:
// últimos dados pessoais digitados, id da cobrança ativa e o flag de
// acesso liberado. É cache de retomada de fluxo, nunca fonte de
// verdade — o pagou do lead no banco é quem manda.
package localstate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	Name          string `json:"nome_cliente,omitempty"`
	CPF           string `json:"cpf_cliente,omitempty"`
	Phone         string `json:"telefone_cliente,omitempty"`
	Email         string `json:"email_compra,omitempty"`
	ChargeID      string `json:"cobranca_id,omitempty"`
	AccessGranted bool   `json:"acesso_liberado,omitempty"`
}

type Store struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) SavePersonalData(name, cpf, phone, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Name = name
	s.state.CPF = cpf
	s.state.Phone = phone
	s.state.Email = email
	return s.persistLocked()
}

func (s *Store) SaveChargeID(chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChargeID = chargeID
	return s.persistLocked()
}

func (s *Store) SetAccessGranted(granted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessGranted = granted
	return s.persistLocked()
}

// PersonalData devolve o que foi salvo na última tentativa de checkout,
// para preencher o formulário de quem volta.
func (s *Store) PersonalData() (name, cpf, phone, email string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Name, s.state.CPF, s.state.Phone, s.state.Email
}

// ChargeID devolve a cobrança pendente, se houver, para retomar o
// polling depois de um reload.
func (s *Store) ChargeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ChargeID
}

func (s *Store) AccessGranted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessGranted
}

// Clear zera tudo: usado no logout e no reset da tela de erro de sessão.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fileState{}
	return s.persistLocked()
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.state = state
	return nil
}

func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}
