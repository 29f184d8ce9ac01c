package field

import (
	"fmt"
)

// Matrix operations over GF(2^8)
//
// Matrices are row-major slices of byte vectors. None of the functions below modify their
// arguments.

// cloneMatrix makes a deep copy of a matrix
func cloneMatrix(A [][]byte) [][]byte {
	B := make([][]byte, len(A))
	for i := range A {
		B[i] = append([]byte(nil), A[i]...)
	}
	return B
}

// Rank returns the rank of the list of vectors
func Rank(vectors [][]byte) int {
	n := len(vectors) // number of vectors
	if n == 0 {
		return 0
	}
	m := len(vectors[0]) // dimension of each vector

	A := cloneMatrix(vectors)

	// Forward elimination only, enough to count pivots
	rank := 0
	for col := 0; col < m && rank < n; col++ {
		// Find pivot
		pivot := -1
		for i := rank; i < n; i++ {
			if A[i][col] != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue // no pivot in this column
		}

		// Swap to current rank position
		if pivot != rank {
			A[rank], A[pivot] = A[pivot], A[rank]
		}

		// Eliminate below only
		inv, _ := Inv(A[rank][col])
		for i := rank + 1; i < n; i++ {
			if A[i][col] == 0 {
				continue
			}
			factor := Mul(A[i][col], inv)
			MulAddSlice(factor, A[rank][col:], A[i][col:])
		}
		rank++
	}
	return rank
}

// IsLinearlyIndependent checks if the list of vectors is linearly independent.
func IsLinearlyIndependent(vectors [][]byte) bool {
	if len(vectors) == 0 {
		return true // empty set is vacuously independent
	}
	// More vectors than dimensions are always dependent
	if len(vectors) > len(vectors[0]) {
		return false
	}
	return Rank(vectors) == len(vectors)
}

// IsLinearlyIndependentIncremental checks if adding a new vector to an existing REF matrix
// maintains linear independence. Returns the updated REF matrix and whether the vector was
// linearly independent. The existing rows are shared with the returned matrix, never modified.
func IsLinearlyIndependentIncremental(existingVectors [][]byte, newVector []byte) ([][]byte, bool) {
	n := len(existingVectors)
	m := len(newVector)

	// n independent vectors already span an n-dimensional space
	if n >= m {
		return nil, false
	}

	reduced := append([]byte(nil), newVector...)

	// Process each existing vector (in REF order)
	for i := 0; i < n; i++ {
		pivotCol := FirstNonZero(existingVectors[i])
		if pivotCol == -1 {
			continue // zero row (shouldn't happen in valid REF)
		}

		// Eliminate this pivot position in the new vector
		if reduced[pivotCol] != 0 {
			factor, _ := Div(reduced[pivotCol], existingVectors[i][pivotCol])
			MulAddSlice(factor, existingVectors[i][pivotCol:], reduced[pivotCol:])
		}
	}

	// A vector that eliminates to zero was a linear combination of the existing ones
	newPivot := FirstNonZero(reduced)
	if newPivot == -1 {
		return nil, false
	}

	// Keep pivots strictly increasing down the rows
	insertPos := n
	for i := 0; i < n; i++ {
		if newPivot < FirstNonZero(existingVectors[i]) {
			insertPos = i
			break
		}
	}

	newREF := make([][]byte, 0, n+1)
	newREF = append(newREF, existingVectors[:insertPos]...)
	newREF = append(newREF, reduced)
	newREF = append(newREF, existingVectors[insertPos:]...)
	return newREF, true
}

// IsRowEchelonForm checks if a matrix is in Row Echelon Form (REF).
// REF requirements:
// 1. All non-zero rows are above any zero rows
// 2. Each leading entry (pivot) of a row is to the right of the leading entry of the row above it
// 3. All entries in a column below a leading entry are zeros
func IsRowEchelonForm(matrix [][]byte) bool {
	prevPivotCol := -1

	for i, row := range matrix {
		pivotCol := FirstNonZero(row)

		if pivotCol == -1 {
			// All remaining rows must also be zero rows
			for k := i + 1; k < len(matrix); k++ {
				if !IsZero(matrix[k]) {
					return false
				}
			}
			break
		}

		if pivotCol <= prevPivotCol {
			return false
		}

		for k := i + 1; k < len(matrix); k++ {
			if pivotCol < len(matrix[k]) && matrix[k][pivotCol] != 0 {
				return false
			}
		}

		prevPivotCol = pivotCol
	}

	return true
}

// IsReducedRowEchelonForm checks that a matrix is in REF, that every pivot equals one and that
// every pivot column is zero outside its pivot row.
func IsReducedRowEchelonForm(matrix [][]byte) bool {
	if !IsRowEchelonForm(matrix) {
		return false
	}
	for i, row := range matrix {
		pivotCol := FirstNonZero(row)
		if pivotCol == -1 {
			continue
		}
		if row[pivotCol] != 1 {
			return false
		}
		for k := 0; k < i; k++ {
			if pivotCol < len(matrix[k]) && matrix[k][pivotCol] != 0 {
				return false
			}
		}
	}
	return true
}

// InvertMatrix computes the inverse of an n x n matrix over the field using Gauss-Jordan
// elimination.
func InvertMatrix(A [][]byte) ([][]byte, error) {
	n := len(A)
	for i := range A {
		if len(A[i]) != n {
			return nil, fmt.Errorf("matrix is not square: row %d has %d columns, expected %d", i, len(A[i]), n)
		}
	}

	// Initialize inverse matrix as identity matrix
	inv := make([][]byte, n)
	for i := range inv {
		inv[i] = make([]byte, n)
		inv[i][i] = 1
	}

	B := cloneMatrix(A)

	for i := 0; i < n; i++ {
		// Find pivot: look for a non-zero element in column i
		pivot := -1
		for k := i; k < n; k++ {
			if B[k][i] != 0 {
				pivot = k
				break
			}
		}
		if pivot == -1 {
			return nil, fmt.Errorf("matrix not invertible")
		}

		if pivot != i {
			B[i], B[pivot] = B[pivot], B[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}

		// Normalize the pivot row
		invPivot, err := Inv(B[i][i])
		if err != nil {
			return nil, err
		}
		ScaleSlice(invPivot, B[i])
		ScaleSlice(invPivot, inv[i])

		// Eliminate other rows
		for k := 0; k < n; k++ {
			if k == i || B[k][i] == 0 {
				continue
			}
			factor := B[k][i]
			MulAddSlice(factor, B[i], B[k])
			MulAddSlice(factor, inv[i], inv[k])
		}
	}
	return inv, nil
}

// MatrixMultiply computes A × B matrix multiplication over the field
// A is m×n, B is n×p, result is m×p
func MatrixMultiply(A, B [][]byte) ([][]byte, error) {
	if len(A) == 0 || len(B) == 0 {
		return nil, nil
	}

	m := len(A)    // rows of A
	n := len(A[0]) // cols of A = rows of B
	p := len(B[0]) // cols of B

	if len(B) != n {
		return nil, fmt.Errorf("matrix dimensions mismatch: A is %d×%d, B is %d×%d", m, n, len(B), p)
	}

	// Row i of C is the linear combination of the rows of B weighted by row i of A
	C := make([][]byte, m)
	for i := range C {
		C[i] = make([]byte, p)
		for k := 0; k < n; k++ {
			MulAddSlice(A[i][k], B[k], C[i])
		}
	}
	return C, nil
}

// RecoverVectors solves V = A⁻¹ * R, where A is the coefficient matrix and R the combined vectors.
func RecoverVectors(A [][]byte, R [][]byte) ([][]byte, error) {
	if len(A) != len(R) {
		return nil, fmt.Errorf("got %d coefficient rows and %d data rows", len(A), len(R))
	}
	Ainv, err := InvertMatrix(A)
	if err != nil {
		return nil, err
	}
	return MatrixMultiply(Ainv, R)
}
