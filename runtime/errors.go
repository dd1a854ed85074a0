// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/pkg/errors"

var (
	ErrUnknownProgram       = errors.New("unknown program")
	ErrCallDepth            = errors.New("max call depth exceeded")
	ErrMissingAccount       = errors.New("account not provided to cross-program invocation")
	ErrPrivilegeEscalation  = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrReadonlyModified     = errors.New("instruction modified a read-only account")
	ErrExternalDataModified = errors.New("instruction modified data of an account it does not own")
	ErrExternalDebit        = errors.New("instruction debited an account it does not own")
	ErrOwnerModified        = errors.New("instruction changed the owner of an account it does not own")
	ErrUnbalanced           = errors.New("sum of account balances before and after instruction do not match")
)
