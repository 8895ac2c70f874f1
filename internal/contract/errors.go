package contract

import "errors"

// Extraction errors. The first three are fatal and abort the run before any
// extraction; ErrBranchNotFound is recoverable and only skips one branch.
var (
	// ErrInvalidRepository means the location is neither a URL nor an
	// existing local git repository.
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrEmptyRepository means the repository has no commits or no branches.
	ErrEmptyRepository = errors.New("repository has no commits")

	// ErrNoBranchesFound means branch selection resolved to an empty list.
	ErrNoBranchesFound = errors.New("no branches found")

	// ErrBranchNotFound marks a requested branch that is absent from the
	// repository. Extraction logs it and continues with the next branch.
	ErrBranchNotFound = errors.New("branch not found")
)

// Aggregation errors.
var (
	// ErrTokenBudgetExceeded means the combined description text exceeds the
	// configured token ceiling. The enclosing stage fails without persisting
	// a partial result.
	ErrTokenBudgetExceeded = errors.New("token budget exceeded")
)
