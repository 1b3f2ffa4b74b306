package entity

import "errors"

var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrEmailAlreadyExists = errors.New("e-mail já cadastrado")
	ErrNoTenant           = errors.New("nenhum cliente vinculado a esta conta")
	ErrNoSession          = errors.New("sessão inexistente ou expirada")
	ErrInvalidCredentials = errors.New("e-mail ou senha inválidos")
	ErrReadOnlyBoard      = errors.New("quadro aberto em modo somente leitura")
	ErrInvalidStatus      = errors.New("status inválido")
	ErrForbidden          = errors.New("acesso negado")
	ErrConflict           = errors.New("registro já existe")
	ErrStatusChanged      = errors.New("status já foi alterado")
)
