// Package hermite computes renormalized multidimensional Hermite amplitudes.
//
// Given a generating function f(z) = C exp(½ zᵀAz + zᵀB) over M complex
// variables and a cutoff per variable, the engine fills the dense tensor
//
//	G[n] = ∂ⁿf(0) / √(n!)
//
// of shape (cutoff_0+1, ..., cutoff_{M-1}+1) with the recursion
//
//	G[0] = C
//	G[n] = (B_k G[n-e_k] + Σ_j A_kj √(n_j - δ_kj) G[n-e_k-e_j]) / √n_k
//
// where k is the lowest axis with n_k > 0. Every cell depends only on cells of
// lower total photon number, so a shell of equal total can be filled
// concurrently once the shells below it are complete.
//
// Gradients use the conjugate Wirtinger convention: for a real loss L and a
// complex parameter θ the gradient is ∂L/∂Re θ + i ∂L/∂Im θ, and an upstream
// gradient dY pulls back as Σ dY conj(∂G/∂θ).
package hermite
