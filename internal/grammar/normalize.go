package grammar

// Normalize returns a new Grammar with direct left recursion removed and then
// common first symbols factored out. Each transform makes a single pass over
// the non-terminals that existed before it began; non-terminals it creates are
// not themselves re-processed, and indirect left recursion is left as-is.
func (g Grammar) Normalize() Grammar {
	return g.RemoveLeftRecursion().LeftFactor()
}

// RemoveLeftRecursion returns a new Grammar equivalent to this one but with
// every direct left-recursive production rewritten. For each non-terminal A
// whose productions are grouped as
//
//	A -> Aα₁ | Aα₂ | ... | Aαₘ | β₁ | β₂ | ... | βₙ
//
// where no βᵢ starts with A, the A-productions are replaced by
//
//	A  -> β₁A' | β₂A' | ... | βₙA'
//	A' -> α₁A' | α₂A' | ... | αₘA' | ε
//
// with A' inserted immediately after A. A βᵢ or αᵢ that is ε contributes just
// A'. Non-terminals with no direct left recursion are copied unchanged, so a
// grammar without left recursion comes back equal to the original.
func (g Grammar) RemoveLeftRecursion() Grammar {
	g = g.Copy()

	// iterating over a pre-retrieved list of nonterminals so inserting new
	// rules below does not change what gets visited.
	A := g.NonTerminals()
	for i := range A {
		ARule := g.Rule(A[i])

		alphas := []Production{}
		betas := []Production{}
		for _, p := range ARule.Productions {
			if len(p) > 0 && p[0] == ARule.NonTerminal {
				alphas = append(alphas, p[1:].Copy())
			} else {
				betas = append(betas, p.Copy())
			}
		}

		if len(alphas) < 1 {
			continue
		}

		APrime := g.GenerateUniqueName(ARule.NonTerminal)
		newARule := Rule{NonTerminal: ARule.NonTerminal, Productions: []Production{}}
		newAPrimeRule := Rule{NonTerminal: APrime}

		for _, b := range betas {
			newARule.Productions = append(newARule.Productions, appendSymbol(b, APrime))
		}
		for _, a := range alphas {
			newAPrimeRule.Productions = append(newAPrimeRule.Productions, appendSymbol(a, APrime))
		}
		newAPrimeRule.Productions = append(newAPrimeRule.Productions, EpsilonProduction.Copy())

		AIndex := g.rulesByName[A[i]]
		g.rules[AIndex] = newARule
		g.insertRule(newAPrimeRule, AIndex)
	}

	return g
}

// LeftFactor returns a new Grammar where, for every non-terminal, productions
// that begin with the same symbol are merged. Productions are grouped by their
// first symbol in order of first appearance; a group of one is kept verbatim
// and a group of two or more
//
//	A -> aβ₁ | aβ₂ | ... | aβₙ
//
// becomes the single production A -> aA' at the position of the group's first
// member, with the new rule
//
//	A' -> β₁ | β₂ | ... | βₙ
//
// inserted after A. An empty βᵢ becomes ε. Only the first symbol is factored,
// and the new rules are not factored again. ε productions are never grouped.
func (g Grammar) LeftFactor() Grammar {
	g = g.Copy()

	A := g.NonTerminals()
	for i := range A {
		ARule := g.Rule(A[i])

		groupOrder := []string{}
		groups := map[string][]Production{}
		for _, p := range ARule.Productions {
			if len(p) < 1 || p.IsEpsilon() {
				// sentinel key that cannot collide with a real first symbol
				// since the empty string is not a valid symbol.
				groupOrder = append(groupOrder, "")
				groups[""] = append(groups[""], p)
				continue
			}
			if _, ok := groups[p[0]]; !ok {
				groupOrder = append(groupOrder, p[0])
			}
			groups[p[0]] = append(groups[p[0]], p)
		}

		newARule := Rule{NonTerminal: ARule.NonTerminal, Productions: []Production{}}
		newRules := []Rule{}
		epsilonsSeen := 0

		for _, first := range groupOrder {
			if first == "" {
				newARule.Productions = append(newARule.Productions, groups[""][epsilonsSeen].Copy())
				epsilonsSeen++
				continue
			}

			group := groups[first]
			if len(group) == 1 {
				newARule.Productions = append(newARule.Productions, group[0].Copy())
				continue
			}

			APrime := g.GenerateUniqueName(ARule.NonTerminal)
			APrimeRule := Rule{NonTerminal: APrime}
			for _, p := range group {
				beta := p[1:].Copy()
				if len(beta) == 0 {
					beta = EpsilonProduction.Copy()
				}
				APrimeRule.Productions = append(APrimeRule.Productions, beta)
			}

			newARule.Productions = append(newARule.Productions, Production{first, APrime})
			newRules = append(newRules, APrimeRule)

			// reserve the name so later groups of A do not pick it; the index
			// is fixed up by insertRule.
			g.rulesByName[APrime] = -1
		}

		AIndex := g.rulesByName[A[i]]
		g.rules[AIndex] = newARule

		// insert in reverse so the rules end up after A in creation order
		for j := len(newRules) - 1; j >= 0; j-- {
			g.insertRule(newRules[j], AIndex)
		}
	}

	return g
}

// appendSymbol returns p followed by sym. If p is empty or is the ε
// production, the result is just sym.
func appendSymbol(p Production, sym string) Production {
	if len(p) == 0 || p.IsEpsilon() {
		return Production{sym}
	}
	newP := p.Copy()
	return append(newP, sym)
}
