package smt

import (
	"fmt"

	"github.com/formalsmt/SMTmv/internal/sexpr"
)

// builtinResult infers the result sort of a built-in operator application
// and checks its arguments structurally. The second return value reports
// whether the operator is built in at all.
func builtinResult(name string, args []Sort, pos sexpr.Pos) (Sort, bool, error) {
	switch name {
	case "not":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return BoolSort, true, wantAll(name, args, BoolSort, pos)

	case "and", "or", "xor", "=>":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return BoolSort, true, wantAll(name, args, BoolSort, pos)

	case "=", "distinct":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return BoolSort, true, wantSame(name, args, pos)

	case "ite":
		if err := wantArgs(name, args, 3, pos); err != nil {
			return Sort{}, true, err
		}
		if !args[0].Equal(BoolSort) {
			return Sort{}, true, mismatch(name, BoolSort.String(), args[0].String(), pos)
		}
		if !args[1].Equal(args[2]) {
			return Sort{}, true, mismatch(name, args[1].String(), args[2].String(), pos)
		}
		return args[1], true, nil

	case "+", "*":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return args[0], true, wantNumericSame(name, args, pos)

	case "-":
		if len(args) < 1 {
			return Sort{}, true, atLeastArgs(name, args, 1, pos)
		}
		return args[0], true, wantNumericSame(name, args, pos)

	case "div", "mod":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		return IntSort, true, wantAll(name, args, IntSort, pos)

	case "abs":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return IntSort, true, wantAll(name, args, IntSort, pos)

	case "/":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		return RealSort, true, wantAll(name, args, RealSort, pos)

	case "<", "<=", ">", ">=":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return BoolSort, true, wantNumericSame(name, args, pos)

	case "select":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		if args[0].Name != "Array" || len(args[0].Params) != 2 {
			return Sort{}, true, mismatch(name, "(Array _ _)", args[0].String(), pos)
		}
		if !args[1].Equal(args[0].Params[0]) {
			return Sort{}, true, mismatch(name, args[0].Params[0].String(), args[1].String(), pos)
		}
		return args[0].Params[1], true, nil

	case "store":
		if err := wantArgs(name, args, 3, pos); err != nil {
			return Sort{}, true, err
		}
		if args[0].Name != "Array" || len(args[0].Params) != 2 {
			return Sort{}, true, mismatch(name, "(Array _ _)", args[0].String(), pos)
		}
		if !args[1].Equal(args[0].Params[0]) {
			return Sort{}, true, mismatch(name, args[0].Params[0].String(), args[1].String(), pos)
		}
		if !args[2].Equal(args[0].Params[1]) {
			return Sort{}, true, mismatch(name, args[0].Params[1].String(), args[2].String(), pos)
		}
		return args[0], true, nil

	case "bvadd", "bvsub", "bvmul", "bvand", "bvor", "bvxor",
		"bvudiv", "bvurem", "bvsdiv", "bvsrem", "bvshl", "bvlshr", "bvashr":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return args[0], true, wantBitVecSame(name, args, pos)

	case "bvnot", "bvneg":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return args[0], true, wantBitVecSame(name, args, pos)

	case "bvult", "bvule", "bvugt", "bvuge", "bvslt", "bvsle", "bvsgt", "bvsge":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		return BoolSort, true, wantBitVecSame(name, args, pos)

	case "concat":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		w0, ok0 := args[0].IsBitVec()
		w1, ok1 := args[1].IsBitVec()
		if !ok0 || !ok1 {
			return Sort{}, true, mismatch(name, "(_ BitVec _)", args[0].String()+", "+args[1].String(), pos)
		}
		return BitVecSort(w0 + w1), true, nil

	case "str.++":
		if len(args) < 2 {
			return Sort{}, true, atLeastArgs(name, args, 2, pos)
		}
		return StringSort, true, wantAll(name, args, StringSort, pos)

	case "str.len":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return IntSort, true, wantAll(name, args, StringSort, pos)

	case "str.at":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		return StringSort, true, wantSorts(name, args, []Sort{StringSort, IntSort}, pos)

	case "str.substr":
		if err := wantArgs(name, args, 3, pos); err != nil {
			return Sort{}, true, err
		}
		return StringSort, true, wantSorts(name, args, []Sort{StringSort, IntSort, IntSort}, pos)

	case "str.contains", "str.prefixof", "str.suffixof", "str.<", "str.<=":
		if err := wantArgs(name, args, 2, pos); err != nil {
			return Sort{}, true, err
		}
		return BoolSort, true, wantAll(name, args, StringSort, pos)

	case "str.indexof":
		if err := wantArgs(name, args, 3, pos); err != nil {
			return Sort{}, true, err
		}
		return IntSort, true, wantSorts(name, args, []Sort{StringSort, StringSort, IntSort}, pos)

	case "str.replace", "str.replace_all":
		if err := wantArgs(name, args, 3, pos); err != nil {
			return Sort{}, true, err
		}
		return StringSort, true, wantAll(name, args, StringSort, pos)

	case "str.to_int":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return IntSort, true, wantAll(name, args, StringSort, pos)

	case "str.from_int":
		if err := wantArgs(name, args, 1, pos); err != nil {
			return Sort{}, true, err
		}
		return StringSort, true, wantAll(name, args, IntSort, pos)
	}

	return Sort{}, false, nil
}

func mismatch(op, want, got string, pos sexpr.Pos) error {
	return &SortMismatchError{Context: op, Want: want, Got: got, Pos: pos}
}

func wantArgs(op string, args []Sort, n int, pos sexpr.Pos) error {
	if len(args) != n {
		return &SortMismatchError{
			Context: op,
			Want:    plural(n),
			Got:     plural(len(args)),
			Pos:     pos,
		}
	}
	return nil
}

func atLeastArgs(op string, args []Sort, n int, pos sexpr.Pos) error {
	return &SortMismatchError{
		Context: op,
		Want:    "at least " + plural(n),
		Got:     plural(len(args)),
		Pos:     pos,
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

func wantAll(op string, args []Sort, want Sort, pos sexpr.Pos) error {
	for _, a := range args {
		if !a.Equal(want) {
			return mismatch(op, want.String(), a.String(), pos)
		}
	}
	return nil
}

func wantSorts(op string, args []Sort, want []Sort, pos sexpr.Pos) error {
	for i, a := range args {
		if !a.Equal(want[i]) {
			return mismatch(op, want[i].String(), a.String(), pos)
		}
	}
	return nil
}

func wantSame(op string, args []Sort, pos sexpr.Pos) error {
	for _, a := range args[1:] {
		if !a.Equal(args[0]) {
			return mismatch(op, args[0].String(), a.String(), pos)
		}
	}
	return nil
}

func wantNumericSame(op string, args []Sort, pos sexpr.Pos) error {
	if !args[0].Equal(IntSort) && !args[0].Equal(RealSort) {
		return mismatch(op, "Int or Real", args[0].String(), pos)
	}
	return wantSame(op, args, pos)
}

func wantBitVecSame(op string, args []Sort, pos sexpr.Pos) error {
	if _, ok := args[0].IsBitVec(); !ok {
		return mismatch(op, "(_ BitVec _)", args[0].String(), pos)
	}
	return wantSame(op, args, pos)
}
