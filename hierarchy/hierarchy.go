//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hierarchy implements phase 4: resolving and validating the
// extends/implements graph — cycle detection, kind compatibility, final-
// extension rejection, method-replacement rules, and field/method
// inheritance (spec §4.4).
package hierarchy

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/env"
)

// Check runs the hierarchy check over every declared type, in sorted
// canonical-name order for deterministic diagnostics. Each type is
// memoized via its Checked flag so a shared supertype is only processed
// once, and always before any of its subtypes consult its inherited
// members (spec §4.4, §5).
func Check(g *env.GlobalContext) error {
	names := make([]string, 0, len(g.Symbols))
	for name := range g.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := g.Symbols[name]
		// checkNoCycle must run before checkOne: checkClass/checkInterface
		// recurse into their supertype unconditionally (guarded only by the
		// Checked flag, which isn't set until the recursion returns), so a
		// genuine extends/implements cycle would recurse forever there.
		// checkNoCycle carries its own bounded visited-set and terminates.
		if err := checkNoCycle(sym, treeset.NewWithStringComparator()); err != nil {
			return err
		}
		if err := checkOne(sym); err != nil {
			return err
		}
		if err := checkNoDuplicateSignature(sym); err != nil {
			return err
		}
		if err := checkNoRepeatedParents(sym); err != nil {
			return err
		}
	}
	return nil
}

func parentNames(sym env.TypeSymbol) []string {
	switch t := sym.(type) {
	case *env.ClassSymbol:
		names := []string{}
		if t.Super != "" {
			names = append(names, t.Super)
		}
		return append(names, t.Ifaces...)
	case *env.InterfaceSymbol:
		return append([]string{}, t.Extends...)
	}
	return nil
}

func checkNoCycle(sym env.TypeSymbol, visited *treeset.Set) error {
	if visited.Contains(sym.CanonicalName()) {
		path := visited.Values()
		strs := make([]string, len(path))
		for i, v := range path {
			strs[i] = v.(string)
		}
		return diagnostic.New("cyclic dependency found, path %s -> %s", strings.Join(strs, "->"), sym.CanonicalName())
	}
	visited.Add(sym.CanonicalName())

	for _, name := range parentNames(sym) {
		next := sym.ResolveName(name)
		if next == nil {
			continue
		}
		ref, ok := next.(*env.ReferenceTypeValue)
		if !ok {
			continue
		}
		if ref.Decl == sym {
			return diagnostic.New("class/interface %s cannot extend itself", sym.CanonicalName())
		}
		nextVisited := treeset.NewWithStringComparator()
		for _, v := range visited.Values() {
			nextVisited.Add(v)
		}
		if err := checkNoCycle(ref.Decl, nextVisited); err != nil {
			return err
		}
	}
	return nil
}

func checkNoDuplicateSignature(sym env.TypeSymbol) error {
	var methods []*env.MethodSymbol
	switch t := sym.(type) {
	case *env.ClassSymbol:
		methods = t.Methods
	case *env.InterfaceSymbol:
		methods = t.Methods
	}
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		if seen[m.Signature()] {
			return diagnostic.New("class/interface %s cannot declare two methods with the same signature: %s", sym.CanonicalName(), m.Signature())
		}
		seen[m.Signature()] = true
	}
	return nil
}

func checkNoRepeatedParents(sym env.TypeSymbol) error {
	names := parentNames(sym)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		resolved := sym.ResolveName(n)
		if resolved == nil {
			continue
		}
		if seen[resolved.TypeName()] {
			return diagnostic.New("class/interface %s cannot inherit a class/interface more than once", sym.CanonicalName())
		}
		seen[resolved.TypeName()] = true
	}
	return nil
}

func checkOne(sym env.TypeSymbol) error {
	switch t := sym.(type) {
	case *env.ClassSymbol:
		return checkClass(t)
	case *env.InterfaceSymbol:
		return checkInterface(t)
	}
	return nil
}

func checkClass(c *env.ClassSymbol) error {
	if c.Checked {
		return nil
	}

	if c.Super != "" {
		if c.Super == c.SimpleName() {
			return diagnostic.New("class %s cannot extend itself", c.Name)
		}
		superVal := c.ResolveName(c.Super)
		if superVal == nil {
			return diagnostic.New("class %s cannot extend class %s that does not exist", c.Name, c.Super)
		}
		superRef, ok := superVal.(*env.ReferenceTypeValue)
		if !ok {
			return diagnostic.New("class %s cannot extend class %s that does not exist", c.Name, c.Super)
		}
		superClass, ok := superRef.Decl.(*env.ClassSymbol)
		if !ok {
			return diagnostic.New("class %s cannot extend an interface (%s)", c.Name, c.Super)
		}

		if err := checkClass(superClass); err != nil {
			return err
		}
		if has(superClass.Mods, "final") {
			return diagnostic.New("class %s cannot extend a final class (%s)", c.Name, c.Super)
		}

		c.SuperSym = superClass

		inherited, err := inheritMethods(c.Name, c.Mods, has(c.Mods, "abstract"), true, c.Methods, superClass.Methods)
		if err != nil {
			return err
		}
		c.Methods = append(c.Methods, inherited...)
		c.Fields = append(c.Fields, inheritFields(c.Fields, superClass.Fields)...)
	}

	for _, ifaceName := range c.Ifaces {
		ifaceVal := c.ResolveName(ifaceName)
		if ifaceVal == nil {
			return diagnostic.New("class %s cannot implement interface %s that does not exist", c.Name, ifaceName)
		}
		ifaceRef, ok := ifaceVal.(*env.ReferenceTypeValue)
		if !ok {
			return diagnostic.New("class %s cannot implement interface %s that does not exist", c.Name, ifaceName)
		}
		iface, ok := ifaceRef.Decl.(*env.InterfaceSymbol)
		if !ok {
			return diagnostic.New("class %s cannot implement a class (%s)", c.Name, ifaceName)
		}

		if err := checkInterface(iface); err != nil {
			return err
		}

		c.IfaceSyms = append(c.IfaceSyms, iface)

		inherited, err := inheritMethods(c.Name, c.Mods, has(c.Mods, "abstract"), true, c.Methods, iface.Methods)
		if err != nil {
			return err
		}
		c.Methods = append(c.Methods, inherited...)
	}

	c.Checked = true
	return nil
}

func checkInterface(i *env.InterfaceSymbol) error {
	if i.Checked {
		return nil
	}

	for _, extend := range i.Extends {
		if extend == i.SimpleName() {
			return diagnostic.New("interface %s cannot extend itself", i.Name)
		}
		val := i.ResolveName(extend)
		if val == nil {
			return diagnostic.New("interface %s cannot extend interface %s that does not exist", i.Name, extend)
		}
		ref, ok := val.(*env.ReferenceTypeValue)
		if !ok {
			return diagnostic.New("interface %s cannot extend interface %s that does not exist", i.Name, extend)
		}
		super, ok := ref.Decl.(*env.InterfaceSymbol)
		if !ok {
			return diagnostic.New("interface %s cannot extend a class (%s)", i.Name, extend)
		}

		if err := checkInterface(super); err != nil {
			return err
		}
		i.Supers = append(i.Supers, super)

		inherited, err := inheritMethods(i.Name, i.Mods, true, false, i.Methods, super.Methods)
		if err != nil {
			return err
		}
		i.Methods = append(i.Methods, inherited...)
	}

	// interfaces implicitly inherit from Object's method set, without
	// extending it: verify the replacement rules would hold, but never
	// actually add Object's methods to the interface (spec §4.4).
	if objVal := i.ResolveName("Object"); objVal != nil {
		if objRef, ok := objVal.(*env.ReferenceTypeValue); ok {
			if obj, ok := objRef.Decl.(*env.ClassSymbol); ok {
				if _, err := inheritMethods(i.Name, i.Mods, true, false, i.Methods, obj.Methods); err != nil {
					return err
				}
			}
		}
	}

	i.Checked = true
	return nil
}

func has(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

// inheritMethods applies the method-replacement rules of spec §4.4:
// a method in declared (the symbol's own methods) "replaces" a same-
// signature method in parentMethods only if it has the same return type,
// the same static-ness, does not downgrade public to protected, and the
// parent method is not final. Methods not replaced are returned for the
// caller to append, after checking a concrete class implements every
// abstract method it would otherwise inherit unimplemented.
func inheritMethods(ownerName string, ownerMods []string, ownerIsAbstractOrInterface bool, isClassOwner bool, declared, parentMethods []*env.MethodSymbol) ([]*env.MethodSymbol, error) {
	var result []*env.MethodSymbol
	for _, parent := range parentMethods {
		var replacing *env.MethodSymbol
		for _, m := range declared {
			if m.Signature() == parent.Signature() {
				replacing = m
				break
			}
		}

		if replacing != nil {
			pReturn, rReturn := "void", "void"
			if parent.ReturnType != nil {
				pReturn = parent.ReturnType.TypeName()
			}
			if replacing.ReturnType != nil {
				rReturn = replacing.ReturnType.TypeName()
			}
			if pReturn != rReturn {
				return nil, diagnostic.New("class/interface %s cannot replace method with signature %s with differing return types", ownerName, parent.Signature())
			}
			if has(replacing.Mods, "static") != has(parent.Mods, "static") {
				return nil, diagnostic.New("class/interface %s cannot replace method with signature %s with differing static-ness", ownerName, parent.Signature())
			}
			if has(parent.Mods, "public") && has(replacing.Mods, "protected") {
				return nil, diagnostic.New("class/interface %s cannot replace public method with signature %s with a protected method", ownerName, parent.Signature())
			}
			if has(parent.Mods, "final") {
				return nil, diagnostic.New("class/interface %s cannot replace final method with signature %s", ownerName, parent.Signature())
			}
		} else {
			if isClassOwner && has(parent.Mods, "abstract") && !ownerIsAbstractOrInterface {
				return nil, diagnostic.New("non-abstract class %s cannot inherit abstract method with signature %s without implementing it", ownerName, parent.Signature())
			}
			result = append(result, parent)
		}
	}
	return result, nil
}

// inheritFields returns every field of parentFields not shadowed by a
// same-named field already declared on the inheriting type.
func inheritFields(declared, parentFields []*env.FieldSymbol) []*env.FieldSymbol {
	var result []*env.FieldSymbol
	for _, pf := range parentFields {
		shadowed := false
		for _, df := range declared {
			if df.Name == pf.Name {
				shadowed = true
				break
			}
		}
		if !shadowed {
			result = append(result, pf)
		}
	}
	return result
}
