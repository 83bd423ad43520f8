package asg

// ExprID identifies an expression within a Context.
type ExprID uint32

// StmtID identifies a statement within a Context.
type StmtID uint32

// FuncID identifies a function within a Context.
type FuncID uint32

// CircuitID identifies a circuit within a Context.
type CircuitID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoExpr    ExprID    = 0
	NoStmt    StmtID    = 0
	NoFunc    FuncID    = 0
	NoCircuit CircuitID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id ExprID) IsValid() bool    { return id != NoExpr }
func (id StmtID) IsValid() bool    { return id != NoStmt }
func (id FuncID) IsValid() bool    { return id != NoFunc }
func (id CircuitID) IsValid() bool { return id != NoCircuit }
