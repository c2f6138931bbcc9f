// Copyright 2025 OrthoNet ML Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/orthonet-ml/orthonet/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go reference implementation
//
// An enclosing training framework can wrap any Backend with a
// gradient-recording decorator and use it as the B type parameter of every
// layer in this library.
//
// Example:
//
//	import (
//	    "github.com/orthonet-ml/orthonet/tensor"
//	    "github.com/orthonet-ml/orthonet/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
type Backend = tensor.Backend
