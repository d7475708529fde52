package ml

import "math"

// adam implements the Adam optimizer with bias correction over the
// network's weight and bias tensors.
//
// Update rule per parameter:
//
//	m = β1·m + (1-β1)·g
//	v = β2·v + (1-β2)·g²
//	m̂ = m / (1 - β1^t)
//	v̂ = v / (1 - β2^t)
//	w = w - lr · m̂ / (√v̂ + ε)
type adam struct {
	lr           float64
	beta1, beta2 float64
	eps          float64
	m, v         *gradients
	step         int
}

// newAdam creates an Adam optimizer for the given network with standard
// defaults: β1=0.9, β2=0.999, ε=1e-8.
func newAdam(n *network, lr float64) *adam {
	return &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     newGradients(n),
		v:     newGradients(n),
	}
}

// update applies one Adam step using gradients accumulated over a batch
// of the given size.
func (a *adam) update(n *network, g *gradients, batchSize float64) {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	for l := range n.layers {
		for i := range n.layers[l].w {
			for j := range n.layers[l].w[i] {
				grad := g.w[l][i][j] / batchSize
				a.m.w[l][i][j] = a.beta1*a.m.w[l][i][j] + (1-a.beta1)*grad
				a.v.w[l][i][j] = a.beta2*a.v.w[l][i][j] + (1-a.beta2)*grad*grad
				mHat := a.m.w[l][i][j] / c1
				vHat := a.v.w[l][i][j] / c2
				n.layers[l].w[i][j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
			}
		}
		for i := range n.layers[l].b {
			grad := g.b[l][i] / batchSize
			a.m.b[l][i] = a.beta1*a.m.b[l][i] + (1-a.beta1)*grad
			a.v.b[l][i] = a.beta2*a.v.b[l][i] + (1-a.beta2)*grad*grad
			mHat := a.m.b[l][i] / c1
			vHat := a.v.b[l][i] / c2
			n.layers[l].b[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// setLR updates the learning rate (used by the plateau schedule).
func (a *adam) setLR(lr float64) {
	a.lr = lr
}
