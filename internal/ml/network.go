package ml

import (
	"math"
	"math/rand"
)

// DefaultLayers is the fixed serving topology: 51 inputs, four ReLU
// hidden layers, one softplus output representing the predicted interval
// in days.
var DefaultLayers = []int{51, 128, 64, 32, 16, 1}

// DefaultDropout holds the per-hidden-layer dropout rates used during
// training. Dropout is identity at serving time.
var DefaultDropout = []float64{0.3, 0.25, 0.2, 0}

// denseLayer is one fully connected layer. Weights are row-major:
// w[out][in].
type denseLayer struct {
	w [][]float64
	b []float64
}

// network is the feed-forward regression net. The forward pass is plain
// dense matrix multiply plus activation; no numerical framework is
// involved at serving time.
type network struct {
	layers []denseLayer
}

// newNetwork creates a network with He-normal initialized weights.
func newNetwork(sizes []int, rng *rand.Rand) *network {
	n := &network{layers: make([]denseLayer, len(sizes)-1)}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		scale := math.Sqrt(2.0 / float64(in))
		w := make([][]float64, out)
		for i := range w {
			w[i] = make([]float64, in)
			for j := range w[i] {
				w[i][j] = rng.NormFloat64() * scale
			}
		}
		n.layers[l] = denseLayer{w: w, b: make([]float64, out)}
	}
	return n
}

// sizes returns the layer widths, input first.
func (n *network) sizes() []int {
	s := make([]int, 0, len(n.layers)+1)
	s = append(s, len(n.layers[0].w[0]))
	for _, l := range n.layers {
		s = append(s, len(l.w))
	}
	return s
}

// forward runs the serving pass: ReLU on hidden layers, softplus on the
// single output so the predicted interval is always positive.
func (n *network) forward(x []float64) float64 {
	a := x
	for l, layer := range n.layers {
		z := make([]float64, len(layer.w))
		for i, row := range layer.w {
			sum := layer.b[i]
			for j, wij := range row {
				sum += wij * a[j]
			}
			z[i] = sum
		}
		if l < len(n.layers)-1 {
			for i := range z {
				if z[i] < 0 {
					z[i] = 0
				}
			}
		}
		a = z
	}
	return softplus(a[0])
}

// forwardTraining runs the pass with inverted dropout, recording the
// pre-activations and post-activation values each layer needs for
// backpropagation.
func (n *network) forwardTraining(x []float64, dropout []float64, rng *rand.Rand) *forwardState {
	st := &forwardState{
		activations: make([][]float64, len(n.layers)+1),
		preacts:     make([][]float64, len(n.layers)),
		masks:       make([][]float64, len(n.layers)),
	}
	st.activations[0] = x

	a := x
	for l, layer := range n.layers {
		z := make([]float64, len(layer.w))
		for i, row := range layer.w {
			sum := layer.b[i]
			for j, wij := range row {
				sum += wij * a[j]
			}
			z[i] = sum
		}
		st.preacts[l] = z

		out := make([]float64, len(z))
		if l < len(n.layers)-1 {
			rate := 0.0
			if l < len(dropout) {
				rate = dropout[l]
			}
			mask := make([]float64, len(z))
			keep := 1 - rate
			for i, zi := range z {
				v := zi
				if v < 0 {
					v = 0
				}
				m := 1.0
				if rate > 0 {
					if rng.Float64() < rate {
						m = 0
					} else {
						m = 1 / keep
					}
				}
				mask[i] = m
				out[i] = v * m
			}
			st.masks[l] = mask
		} else {
			out[0] = softplus(z[0])
		}
		st.activations[l+1] = out
		a = out
	}
	st.output = a[0]
	return st
}

// forwardState holds the intermediate values of one training pass.
type forwardState struct {
	activations [][]float64 // activations[0] is the input
	preacts     [][]float64
	masks       [][]float64 // inverted-dropout masks per hidden layer
	output      float64
}

// gradients accumulates parameter gradients shaped like the network.
type gradients struct {
	w [][][]float64
	b [][]float64
}

func newGradients(n *network) *gradients {
	g := &gradients{
		w: make([][][]float64, len(n.layers)),
		b: make([][]float64, len(n.layers)),
	}
	for l, layer := range n.layers {
		g.w[l] = make([][]float64, len(layer.w))
		for i := range layer.w {
			g.w[l][i] = make([]float64, len(layer.w[i]))
		}
		g.b[l] = make([]float64, len(layer.b))
	}
	return g
}

// backward accumulates gradients of the squared-error loss (y - target)²
// for one sample into g.
func (n *network) backward(st *forwardState, target float64, g *gradients) {
	last := len(n.layers) - 1

	// d(loss)/d(z_out) = 2(y - t) * softplus'(z) with softplus' = sigmoid.
	dOut := 2 * (st.output - target) * sigmoid(st.preacts[last][0])
	delta := []float64{dOut}

	for l := last; l >= 0; l-- {
		act := st.activations[l]
		for i, di := range delta {
			g.b[l][i] += di
			row := g.w[l][i]
			for j := range row {
				row[j] += di * act[j]
			}
		}
		if l == 0 {
			break
		}
		// Propagate through the weights, then through the previous
		// layer's ReLU and dropout mask.
		prev := make([]float64, len(n.layers[l].w[0]))
		for i, di := range delta {
			for j, wij := range n.layers[l].w[i] {
				prev[j] += di * wij
			}
		}
		for j := range prev {
			if st.preacts[l-1][j] <= 0 {
				prev[j] = 0
			} else {
				prev[j] *= st.masks[l-1][j]
			}
		}
		delta = prev
	}
}

// clone returns a deep copy of the network, used to snapshot the best
// weights during early stopping.
func (n *network) clone() *network {
	out := &network{layers: make([]denseLayer, len(n.layers))}
	for l, layer := range n.layers {
		w := make([][]float64, len(layer.w))
		for i := range layer.w {
			w[i] = append([]float64(nil), layer.w[i]...)
		}
		out.layers[l] = denseLayer{w: w, b: append([]float64(nil), layer.b...)}
	}
	return out
}

func softplus(x float64) float64 {
	// Numerically stable: log(1+e^x) = max(x,0) + log1p(e^-|x|).
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
