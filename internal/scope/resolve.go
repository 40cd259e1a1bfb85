package scope

// resolve walks every scope's raw references and binds each to the
// nearest enclosing Variable of the same name, propagating
// irresolvable references upward as "through" references. It runs
// once, after the whole scope/variable tree has
// been built, so a `var` used before its own declaration in source
// order still resolves (hoisting).
func resolve(m *Manager) {
	for _, s := range m.scopes {
		for _, ref := range s.references {
			resolveReference(s, ref)
		}
	}
}

func resolveReference(from *Scope, ref *Reference) {
	for cur := from; cur != nil; cur = cur.Upper {
		if v := cur.findOwnVariable(ref.Name); v != nil {
			ref.Resolved = v
			v.References = append(v.References, ref)
			if cur == from {
				ref.TDZ = isTemporalDeadZone(v, ref)
			}
			return
		}
		cur.through = append(cur.through, ref)
	}
	// Never resolved: stays an unresolved (implicit/undeclared) read.
}

// isTemporalDeadZone reports whether ref lexically precedes every
// identifier of a let/const/class binding v declared in the same
// scope ref occurs in.
func isTemporalDeadZone(v *Variable, ref *Reference) bool {
	isLexical := false
	for _, d := range v.Defs {
		switch d.Kind {
		case DefVariable:
			if d.DeclaredVar == "let" || d.DeclaredVar == "const" {
				isLexical = true
			}
		case DefClassName:
			isLexical = true
		}
	}
	if !isLexical || len(v.Identifiers) == 0 {
		return false
	}
	first := v.Identifiers[0]
	for _, id := range v.Identifiers {
		if id.StartByte() < first.StartByte() {
			first = id
		}
	}
	return ref.Identifier.StartByte() < first.StartByte()
}
