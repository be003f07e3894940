package compiler

import "github.com/xirelogy/go-lox/internal/bytecode"

type Chunk = bytecode.Chunk
