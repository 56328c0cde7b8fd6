package student

func seedStudent(id, name, project string, p1, p2, final float64) Student {
	return Student{
		ID:      id,
		Name:    name,
		Project: project,
		Grades:  map[string]float64{DeliveryP1: p1, DeliveryP2: p2, DeliveryFinal: final},
	}
}

// Seed returns the roster used when the spreadsheet has nothing to offer.
func Seed() []Student {
	return []Student{
		seedStudent("1", "Yenifer Tatiana Arias Coca", "Casa AF / Arquipélago Arquitetos", 4.2, 4.0, 4.5),
		seedStudent("2", "Camilo Andres Miranda Gomez", "Casa AF / Arquipélago Arquitetos", 3.8, 3.5, 4.0),
		seedStudent("3", "Andres Felipe Posso Garcia", "Casa Salatino / Sommet", 4.5, 4.2, 4.8),
		seedStudent("4", "Carlos Mario Dagua Palco", "Casa Salatino / Sommet", 3.2, 3.8, 3.5),
		seedStudent("5", "James Andres Marin Rojas", "Casa al cuadrado / Estudi La Caseta", 4.8, 4.9, 5.0),
		seedStudent("6", "Alvaro Andres Rodriguez Espinel", "Pendiente de asignar", 2.5, 2.8, 3.0),
		seedStudent("7", "Karol Andrea Forero Herrera", "Casa Salatino / Sommet", 4.0, 4.2, 4.3),
		seedStudent("8", "Alejandra Rueda Castro", "Casa Jungla / FAMM Arquitectura", 4.9, 4.8, 5.0),
		seedStudent("9", "Julian Santiago Gonzalez Pirazan", "Pendiente de asignar", 3.0, 3.2, 3.5),
		seedStudent("10", "Alejandra Lopez Arrubla", "Casa Jungla / FAMM Arquitectura", 4.1, 4.3, 4.5),
		seedStudent("11", "Juan Felipe Diaz Martinez", "Casa Jungla / FAMM Arquitectura", 3.9, 4.0, 4.2),
	}
}
