package resolver

import "escola-gestao/internal/iam/domain/model"

// State é o resultado de uma tentativa de resolução de tenant.
type State int

const (
	// StatePending indica resolução ainda não concluída.
	StatePending State = iota
	// StateNoEscola indica o site principal (domínio raiz, sem escola).
	StateNoEscola
	// StateResolved indica escola ativa encontrada.
	StateResolved
	// StateNotFound indica slug candidato sem escola correspondente;
	// terminal para a requisição atual, nunca tratado como NoEscola.
	StateNotFound
	// StateLoadError indica falha de consulta ao diretório; transitório,
	// uma nova chamada a Resolve tenta de novo.
	StateLoadError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateNoEscola:
		return "no_escola"
	case StateResolved:
		return "resolved"
	case StateNotFound:
		return "not_found"
	case StateLoadError:
		return "load_error"
	default:
		return "unknown"
	}
}

// Resolution é imutável: recomputada a cada navegação em que host ou
// query mudam, nunca alterada no lugar.
type Resolution struct {
	State  State
	Escola *model.Escola
	Err    error
}
