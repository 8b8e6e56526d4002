// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides table-driven implementations of a few
// .fa/.fq-specific operations on byte arrays, such as reverse-complementing a
// read before it is compared against its mate.
package biosimd
