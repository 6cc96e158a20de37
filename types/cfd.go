package types

import (
	"fmt"
	"strings"
)

// SolverKind selects the physics model whose fields are written
type SolverKind uint8

const (
	Euler SolverKind = iota
	NavierStokes
	RANS
	TNE2Euler
	TNE2NavierStokes
	AdjEuler
	AdjNavierStokes
	AdjRANS
	AdjTNE2Euler
	AdjTNE2NavierStokes
	LinearElasticity
	WaveEquation
	HeatEquation
	PoissonEquation
)

var SolverNameMap = map[string]SolverKind{
	"euler":                  Euler,
	"navier_stokes":          NavierStokes,
	"rans":                   RANS,
	"tne2_euler":             TNE2Euler,
	"tne2_navier_stokes":     TNE2NavierStokes,
	"adj_euler":              AdjEuler,
	"adj_navier_stokes":      AdjNavierStokes,
	"adj_rans":               AdjRANS,
	"adj_tne2_euler":         AdjTNE2Euler,
	"adj_tne2_navier_stokes": AdjTNE2NavierStokes,
	"linear_elasticity":      LinearElasticity,
	"wave_equation":          WaveEquation,
	"heat_equation":          HeatEquation,
	"poisson_equation":       PoissonEquation,
}

var solverNames = [...]string{
	"EULER", "NAVIER_STOKES", "RANS", "TNE2_EULER", "TNE2_NAVIER_STOKES",
	"ADJ_EULER", "ADJ_NAVIER_STOKES", "ADJ_RANS", "ADJ_TNE2_EULER", "ADJ_TNE2_NAVIER_STOKES",
	"LINEAR_ELASTICITY", "WAVE_EQUATION", "HEAT_EQUATION", "POISSON_EQUATION",
}

func NewSolverKind(label string) (sk SolverKind, err error) {
	var ok bool
	if sk, ok = SolverNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown solver kind: %q", label)
	}
	return
}

func (sk SolverKind) String() string {
	if int(sk) < len(solverNames) {
		return solverNames[sk]
	}
	return fmt.Sprintf("SolverKind(%d)", int(sk))
}

// IsFlow is true for the direct compressible flow solvers
func (sk SolverKind) IsFlow() bool {
	return sk == Euler || sk == NavierStokes || sk == RANS
}

// IsViscous is true for the direct viscous flow solvers
func (sk SolverKind) IsViscous() bool {
	return sk == NavierStokes || sk == RANS
}

func (sk SolverKind) IsTNE2() bool {
	return sk == TNE2Euler || sk == TNE2NavierStokes
}

func (sk SolverKind) IsAdjoint() bool {
	switch sk {
	case AdjEuler, AdjNavierStokes, AdjRANS, AdjTNE2Euler, AdjTNE2NavierStokes:
		return true
	}
	return false
}
