package assignment

import "fmt"

// MaxCodeAttempts acota los reintentos de generación de código ante colisión.
const MaxCodeAttempts = 100

// Code genera el código de linaje de una asignación: AA SS VV (año, sede, vendedor),
// dos dígitos cada uno. El intento 0 es el código determinista; cada reintento
// desplaza el tramo del vendedor para que la búsqueda converja en 100 intentos.
func Code(year int, locationID, userID int64, attempt int) string {
	return fmt.Sprintf("%02d%02d%02d",
		mod100(int64(year)),
		mod100(locationID),
		mod100(userID+int64(attempt)),
	)
}

func mod100(v int64) int64 {
	r := v % 100
	if r < 0 {
		r += 100
	}
	return r
}
