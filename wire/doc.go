// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire defines the value types that make up the ledger: blocks and the
opaque transactions they carry.

Both types are treated as immutable once they have been handed to another
subsystem.  Deriving a new candidate from a block template is done with
WithProof, which returns a fresh value and never touches the template.

The JSON field names and their order are part of the hash pipeline input, so
they must not be reordered or renamed without also changing every block hash
in the ledger, including the genesis block.
*/
package wire
