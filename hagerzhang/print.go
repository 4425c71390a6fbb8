// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

func (r *searchRun[T]) printIter(st *searchState[T]) {
	log := &r.logger
	log.log("At iterate %5d    active= %d    converged= %d    failed= %d    nf= %d\n",
		st.iter, st.active().count(), st.converged.count(), st.failed.count(), r.ev.numEval)
	log.out(" %4d %4d %6d %6d %6d\n",
		st.iter, r.ev.numEval, st.active().count(), st.converged.count(), st.failed.count())
}

func (r *searchRun[T]) printBracket(st *searchState[T]) {
	log := &r.logger
	log.log("\n\nITERATION %5d\n", st.iter+1)
	for i, v := range st.active() {
		if !v {
			continue
		}
		a, b := st.left[i], st.right[i]
		log.log("  [%d] a= %12.5e  f(a)= %12.5e  f'(a)= %12.5e    b= %12.5e  f(b)= %12.5e  f'(b)= %12.5e\n",
			i, float64(a.X), float64(a.F), float64(a.DF), float64(b.X), float64(b.F), float64(b.DF))
	}
}

func (r *searchRun[T]) printExit(res *Result[T]) {
	log := &r.logger

	conv, fail := 0, 0
	for i := range res.Status {
		if res.Converged[i] {
			conv++
		} else if res.Failed[i] {
			fail++
		}
	}

	log.log("\n           * * *\n")
	log.log("Tit   = total number of iterations\n")
	log.log("Tnf   = total number of oracle calls\n")
	log.log("Conv  = number of converged members\n")
	log.log("Fail  = number of failed members\n")
	log.log("\n           * * *\n")
	log.log("\n   N      Tit      Tnf    Conv    Fail\n")
	log.log("%5d %6d %7d %7d %7d\n", r.n, res.NumIter, res.NumEval, conv, fail)

	if log.enable(LogTrace) {
		for i, s := range res.Status {
			log.log("  [%d] %v    x= %12.5e\n", i, s, float64(res.Left[i].X))
		}
	}
}
