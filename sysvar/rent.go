// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sysvar

// AccountStorageOverhead is the per account size charged on top of its data.
const AccountStorageOverhead = 128

// Rent is the rent schedule. An account is exempt when its native balance
// covers ExemptionYears of rent for its size.
type Rent struct {
	PerByteYear    uint64 `yaml:"perByteYear"`
	ExemptionYears uint64 `yaml:"exemptionYears"`
}

// DefaultRent returns the default schedule.
func DefaultRent() Rent {
	return Rent{
		PerByteYear:    3480,
		ExemptionYears: 2,
	}
}

// MinimumBalance returns the balance an account of dataLen bytes needs to be exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (AccountStorageOverhead + uint64(dataLen)) * r.PerByteYear * r.ExemptionYears
}

// IsExempt reports whether balance is enough for an account of dataLen bytes.
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}
