// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"strings"

	"nickandperla.net/clips/internal/expr"
)

// BuiltinFunc is the signature for builtin functions. Arguments arrive
// unevaluated so each function controls evaluation order.
type BuiltinFunc func(env *Environment, args []expr.Node) (Value, error)

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case "bind":
		return builtinBind
	case "print", "printout":
		return builtinPrint
	case "assert":
		return builtinAssert
	case "facts":
		return builtinFacts
	case "rules":
		return builtinRules
	case "clear":
		return builtinClear
	case "defrule":
		return builtinDefrule
	case "retract":
		return builtinRetract
	case "run":
		return builtinRun
	case "loop-for-count":
		return builtinLoopForCount
	case "if":
		return builtinIf
	case "create$":
		return builtinCreate
	}
	return nil
}

func evalFunction(name string, args []expr.Node, env *Environment) (Value, error) {
	fn := getBuiltin(name)
	if fn == nil {
		return nil, errorf(ErrUnknownFunction, "Unknown function: %s", name)
	}
	return fn(env, args)
}

func builtinBind(env *Environment, args []expr.Node) (Value, error) {
	if len(args) != 2 {
		return nil, errorf(ErrArity, "bind requires exactly two arguments")
	}
	v, ok := args[0].(*expr.Variable)
	if !ok {
		return nil, errorf(ErrType, "First argument to bind must be a variable")
	}
	val, err := Interpret(args[1], env)
	if err != nil {
		return nil, err
	}
	env.Bind(v.Name, val)
	return val, nil
}

// builtinPrint concatenates its arguments. A leading t names the output
// router and is skipped; crlf emits a newline.
func builtinPrint(env *Environment, args []expr.Node) (Value, error) {
	var sb strings.Builder
	for i, arg := range args {
		if i == 0 && expr.IsKeyword(arg, "t") {
			continue
		}
		if expr.IsKeyword(arg, "crlf") {
			sb.WriteByte('\n')
			continue
		}
		v, err := Interpret(arg, env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(Format(v))
	}
	return String(sb.String()), nil
}

func builtinAssert(env *Environment, args []expr.Node) (Value, error) {
	if len(args) != 1 {
		return nil, errorf(ErrArity, "assert requires exactly one argument")
	}
	var content string
	if e, ok := args[0].(*expr.Expression); ok {
		content = e.String()
	} else {
		v, err := Interpret(args[0], env)
		if err != nil {
			return nil, err
		}
		content = Text(v)
	}
	return String("f-" + env.Assert(content)), nil
}

func builtinFacts(env *Environment, args []expr.Node) (Value, error) {
	facts := env.Facts()
	if len(facts) == 0 {
		return String("No facts in the system"), nil
	}
	lines := []string{"Facts:"}
	for _, f := range facts {
		lines = append(lines, FormatFact(f))
	}
	return String(strings.TrimSpace(strings.Join(lines, "\n"))), nil
}

func builtinRules(env *Environment, args []expr.Node) (Value, error) {
	rules := env.Rules()
	if len(rules) == 0 {
		return String("No rules in the system"), nil
	}
	lines := []string{"Rules:"}
	for _, r := range rules {
		lines = append(lines, FormatRule(r))
	}
	return String(strings.TrimSpace(strings.Join(lines, "\n"))), nil
}

func builtinClear(env *Environment, args []expr.Node) (Value, error) {
	env.Reset()
	return String("CLIPS system cleared"), nil
}

// builtinDefrule records the rule's full source form. Conditions and
// actions are not interpreted.
func builtinDefrule(env *Environment, args []expr.Node) (Value, error) {
	if len(args) < 1 {
		return nil, errorf(ErrArity, "defrule requires at least a rule name")
	}
	id, ok := args[0].(*expr.Identifier)
	if !ok {
		return nil, errorf(ErrType, "First argument to defrule must be an identifier")
	}
	if env.HasRule(id.Name) {
		return nil, errorf(ErrDuplicateRule, "Rule '%s' already exists", id.Name)
	}
	form := &expr.Expression{Children: append([]expr.Node{&expr.Identifier{Name: "defrule"}}, args...)}
	env.DefineRule(id.Name, form.String())
	return String(fmt.Sprintf("Rule '%s' defined", id.Name)), nil
}

func builtinRetract(env *Environment, args []expr.Node) (Value, error) {
	if len(args) != 1 {
		return nil, errorf(ErrArity, "retract requires exactly one argument")
	}
	var ref string
	if id, ok := args[0].(*expr.Identifier); ok {
		ref = id.Name
	} else {
		v, err := Interpret(args[0], env)
		if err != nil {
			return nil, err
		}
		ref = Text(v)
	}
	id := strings.TrimPrefix(ref, "f-")
	if !env.Retract(id) {
		return nil, errorf(ErrFactNotFound, "Fact f-%s not found", id)
	}
	return String(fmt.Sprintf("Fact f-%s retracted", id)), nil
}

// builtinRun reports every stored rule as activated. Rule conditions are
// never matched against facts.
func builtinRun(env *Environment, args []expr.Node) (Value, error) {
	rules := env.Rules()
	if len(rules) == 0 {
		return String("No rules to execute"), nil
	}
	var sb strings.Builder
	sb.WriteString("Executing rules:\n")
	for _, r := range rules {
		fmt.Fprintf(&sb, "Activated rule: %s\n", r.Name)
	}
	fmt.Fprintf(&sb, "Run complete. %d rule(s) activated.", len(rules))
	return String(sb.String()), nil
}

// builtinLoopForCount handles (loop-for-count (?v start end) [do] body).
func builtinLoopForCount(env *Environment, args []expr.Node) (Value, error) {
	if len(args) < 2 {
		return nil, errorf(ErrArity, "loop-for-count requires at least loop parameters and an action")
	}
	params, ok := args[0].(*expr.Expression)
	if !ok {
		return nil, errorf(ErrType, "First argument to loop-for-count must be a parameter list")
	}
	if len(params.Children) != 3 {
		return nil, errorf(ErrArity, "Loop parameters must include variable, start, and end values")
	}
	loopVar, ok := params.Children[0].(*expr.Variable)
	if !ok {
		return nil, errorf(ErrType, "First loop parameter must be a variable")
	}
	start, err := Interpret(params.Children[1], env)
	if err != nil {
		return nil, err
	}
	end, err := Interpret(params.Children[2], env)
	if err != nil {
		return nil, err
	}
	from, ok1 := start.(Number)
	to, ok2 := end.(Number)
	if !ok1 || !ok2 {
		return nil, errorf(ErrType, "Start and end values must be numbers")
	}

	actionIndex := 1
	if expr.IsKeyword(args[1], "do") {
		actionIndex = 2
	}
	if actionIndex >= len(args) {
		return nil, errorf(ErrArity, "Missing action in loop-for-count")
	}
	action := args[actionIndex]

	var sb strings.Builder
	for i := from; i <= to; i++ {
		env.Bind(loopVar.Name, i)
		v, err := Interpret(action, env)
		if err != nil {
			return nil, err
		}
		if _, isNil := v.(Nil); !isNil {
			sb.WriteString(Text(v))
		}
	}
	return String(sb.String()), nil
}

// builtinIf locates then/else by a linear scan over the arguments after
// the condition. The first then wins; the first else after it ends the
// scan.
func builtinIf(env *Environment, args []expr.Node) (Value, error) {
	if len(args) < 3 {
		return nil, errorf(ErrArity, "if requires condition, then clause, and optionally an else clause")
	}
	cond, err := Interpret(args[0], env)
	if err != nil {
		return nil, err
	}

	thenIndex, elseIndex := -1, -1
	for i := 1; i < len(args); i++ {
		if expr.IsKeyword(args[i], "then") && thenIndex == -1 {
			thenIndex = i
		} else if expr.IsKeyword(args[i], "else") {
			elseIndex = i
			break
		}
	}
	if thenIndex == -1 {
		return nil, errorf(ErrMissingThen, "Missing 'then' in if statement")
	}

	if Truthy(cond) {
		thenEnd := len(args)
		if elseIndex != -1 {
			thenEnd = elseIndex
		}
		return evalSequence(args[thenIndex+1:thenEnd], env)
	}
	if elseIndex != -1 {
		return evalSequence(args[elseIndex+1:], env)
	}
	return Nil{}, nil
}

func builtinCreate(env *Environment, args []expr.Node) (Value, error) {
	vals, err := evalAll(args, env)
	if err != nil {
		return nil, err
	}
	return List(vals), nil
}

// FormatFact renders a fact as f-<id>: <text>.
func FormatFact(f Fact) string {
	return fmt.Sprintf("f-%s: %s", f.ID, f.Text)
}

// FormatRule renders a rule as <name>: <description>.
func FormatRule(r Rule) string {
	return fmt.Sprintf("%s: %s", r.Name, r.Description)
}
