// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world queue protocol such as OverwriteDone to
// Expr-world, so it can be stepped with Step and Advance or polled as part
// of a proactor loop.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world queue protocol to Cont-world, so it can
// be composed with Bind and evaluated with Exec.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}
