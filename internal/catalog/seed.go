package catalog

import "github.com/brainbolt/backend/internal/models"

// Seed is the built-in catalog: five items per difficulty tier.
func Seed() []models.Item {
	items := make([]models.Item, len(seedItems))
	copy(items, seedItems)
	return items
}

var seedItems = []models.Item{
	{ID: "1", Difficulty: 1, Category: "general", Text: "What is the capital of France?", Choices: []string{"Berlin", "Paris", "Madrid", "Rome"}, CorrectIndex: 1},
	{ID: "11", Difficulty: 1, Category: "general", Text: "What is the largest ocean on Earth?", Choices: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectIndex: 3},
	{ID: "12", Difficulty: 1, Category: "general", Text: "How many continents are there?", Choices: []string{"5", "6", "7", "8"}, CorrectIndex: 2},
	{ID: "13", Difficulty: 1, Category: "general", Text: "What is the capital of Japan?", Choices: []string{"Seoul", "Beijing", "Tokyo", "Bangkok"}, CorrectIndex: 2},
	{ID: "14", Difficulty: 1, Category: "general", Text: "Which country is known as the Land of the Rising Sun?", Choices: []string{"China", "Japan", "Korea", "Thailand"}, CorrectIndex: 1},
	{ID: "2", Difficulty: 2, Category: "science", Text: "Which planet is known as the Red Planet?", Choices: []string{"Earth", "Venus", "Mars", "Jupiter"}, CorrectIndex: 2},
	{ID: "15", Difficulty: 2, Category: "science", Text: "What is the chemical symbol for water?", Choices: []string{"H2O", "CO2", "O2", "NaCl"}, CorrectIndex: 0},
	{ID: "16", Difficulty: 2, Category: "science", Text: "How many legs does a spider have?", Choices: []string{"6", "8", "10", "12"}, CorrectIndex: 1},
	{ID: "17", Difficulty: 2, Category: "science", Text: "What is the closest star to Earth?", Choices: []string{"Proxima Centauri", "Sirius", "The Sun", "Alpha Centauri"}, CorrectIndex: 2},
	{ID: "18", Difficulty: 2, Category: "science", Text: "What gas do plants absorb from the atmosphere?", Choices: []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"}, CorrectIndex: 2},
	{ID: "3", Difficulty: 3, Category: "arithmetic", Text: "What is 15 multiplied by 4?", Choices: []string{"50", "60", "70", "80"}, CorrectIndex: 1},
	{ID: "19", Difficulty: 3, Category: "arithmetic", Text: "What is 25 divided by 5?", Choices: []string{"3", "4", "5", "6"}, CorrectIndex: 2},
	{ID: "20", Difficulty: 3, Category: "arithmetic", Text: "What is 12 + 18?", Choices: []string{"28", "30", "32", "34"}, CorrectIndex: 1},
	{ID: "21", Difficulty: 3, Category: "arithmetic", Text: "What is 100 minus 37?", Choices: []string{"61", "63", "65", "67"}, CorrectIndex: 1},
	{ID: "22", Difficulty: 3, Category: "arithmetic", Text: "What is 7 times 8?", Choices: []string{"54", "56", "58", "60"}, CorrectIndex: 1},
	{ID: "4", Difficulty: 4, Category: "chemistry", Text: "Which element has the chemical symbol 'O'?", Choices: []string{"Gold", "Silver", "Oxygen", "Iron"}, CorrectIndex: 2},
	{ID: "23", Difficulty: 4, Category: "chemistry", Text: "What is the chemical symbol for gold?", Choices: []string{"Go", "Gd", "Au", "Ag"}, CorrectIndex: 2},
	{ID: "24", Difficulty: 4, Category: "chemistry", Text: "What is the hardest natural substance on Earth?", Choices: []string{"Gold", "Iron", "Diamond", "Platinum"}, CorrectIndex: 2},
	{ID: "25", Difficulty: 4, Category: "chemistry", Text: "What is the most abundant gas in Earth's atmosphere?", Choices: []string{"Oxygen", "Carbon Dioxide", "Nitrogen", "Argon"}, CorrectIndex: 2},
	{ID: "26", Difficulty: 4, Category: "chemistry", Text: "What is the freezing point of water in Celsius?", Choices: []string{"-10°C", "0°C", "10°C", "32°C"}, CorrectIndex: 1},
	{ID: "5", Difficulty: 5, Category: "culture", Text: "Who painted the Mona Lisa?", Choices: []string{"Van Gogh", "Picasso", "Da Vinci", "Monet"}, CorrectIndex: 2},
	{ID: "27", Difficulty: 5, Category: "culture", Text: "In which year did World War II end?", Choices: []string{"1943", "1944", "1945", "1946"}, CorrectIndex: 2},
	{ID: "28", Difficulty: 5, Category: "culture", Text: "Who wrote 'Romeo and Juliet'?", Choices: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, CorrectIndex: 1},
	{ID: "29", Difficulty: 5, Category: "culture", Text: "What is the name of the famous tower in Paris?", Choices: []string{"Big Ben", "Eiffel Tower", "Leaning Tower", "Statue of Liberty"}, CorrectIndex: 1},
	{ID: "30", Difficulty: 5, Category: "culture", Text: "Which ancient wonder was located in Alexandria?", Choices: []string{"Hanging Gardens", "Colossus", "Lighthouse", "Pyramids"}, CorrectIndex: 2},
	{ID: "6", Difficulty: 6, Category: "mathematics", Text: "What is the square root of 144?", Choices: []string{"10", "11", "12", "14"}, CorrectIndex: 2},
	{ID: "31", Difficulty: 6, Category: "mathematics", Text: "What is 15% of 200?", Choices: []string{"25", "30", "35", "40"}, CorrectIndex: 1},
	{ID: "32", Difficulty: 6, Category: "mathematics", Text: "What is the value of π (pi) to two decimal places?", Choices: []string{"3.12", "3.14", "3.16", "3.18"}, CorrectIndex: 1},
	{ID: "33", Difficulty: 6, Category: "mathematics", Text: "What is 2 to the power of 5?", Choices: []string{"16", "32", "64", "128"}, CorrectIndex: 1},
	{ID: "34", Difficulty: 6, Category: "mathematics", Text: "What is the area of a circle with radius 5? (π ≈ 3.14)", Choices: []string{"78.5", "31.4", "15.7", "62.8"}, CorrectIndex: 0},
	{ID: "7", Difficulty: 7, Category: "geography", Text: "Which continent is the Sahara Desert located in?", Choices: []string{"Asia", "Africa", "South America", "Australia"}, CorrectIndex: 1},
	{ID: "35", Difficulty: 7, Category: "geography", Text: "What is the longest river in the world?", Choices: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, CorrectIndex: 1},
	{ID: "36", Difficulty: 7, Category: "geography", Text: "Which country is home to the Great Barrier Reef?", Choices: []string{"New Zealand", "Australia", "Indonesia", "Philippines"}, CorrectIndex: 1},
	{ID: "37", Difficulty: 7, Category: "geography", Text: "What is the smallest country in the world?", Choices: []string{"Monaco", "Vatican City", "San Marino", "Liechtenstein"}, CorrectIndex: 1},
	{ID: "38", Difficulty: 7, Category: "geography", Text: "Which mountain range separates Europe from Asia?", Choices: []string{"Alps", "Himalayas", "Ural Mountains", "Andes"}, CorrectIndex: 2},
	{ID: "8", Difficulty: 8, Category: "history", Text: "In what year did the Titanic sink?", Choices: []string{"1905", "1912", "1918", "1922"}, CorrectIndex: 1},
	{ID: "39", Difficulty: 8, Category: "history", Text: "Who was the first person to walk on the moon?", Choices: []string{"Buzz Aldrin", "Neil Armstrong", "Michael Collins", "John Glenn"}, CorrectIndex: 1},
	{ID: "40", Difficulty: 8, Category: "history", Text: "In which year did the Berlin Wall fall?", Choices: []string{"1987", "1989", "1991", "1993"}, CorrectIndex: 1},
	{ID: "41", Difficulty: 8, Category: "history", Text: "Who was the first President of the United States?", Choices: []string{"Thomas Jefferson", "John Adams", "George Washington", "Benjamin Franklin"}, CorrectIndex: 2},
	{ID: "42", Difficulty: 8, Category: "history", Text: "In which year did World War I begin?", Choices: []string{"1912", "1914", "1916", "1918"}, CorrectIndex: 1},
	{ID: "9", Difficulty: 9, Category: "biology", Text: "What is the largest organ in the human body?", Choices: []string{"Heart", "Liver", "Skin", "Lungs"}, CorrectIndex: 2},
	{ID: "43", Difficulty: 9, Category: "biology", Text: "How many chambers does the human heart have?", Choices: []string{"2", "3", "4", "5"}, CorrectIndex: 2},
	{ID: "44", Difficulty: 9, Category: "biology", Text: "What is the powerhouse of the cell?", Choices: []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi Apparatus"}, CorrectIndex: 1},
	{ID: "45", Difficulty: 9, Category: "biology", Text: "How many bones are in an adult human body?", Choices: []string{"196", "206", "216", "226"}, CorrectIndex: 1},
	{ID: "46", Difficulty: 9, Category: "biology", Text: "What is the scientific name for the human species?", Choices: []string{"Homo erectus", "Homo sapiens", "Homo habilis", "Homo neanderthalensis"}, CorrectIndex: 1},
	{ID: "10", Difficulty: 10, Category: "physics", Text: "Which physicist developed the theory of General Relativity?", Choices: []string{"Newton", "Bohr", "Einstein", "Hawking"}, CorrectIndex: 2},
	{ID: "47", Difficulty: 10, Category: "physics", Text: "What is the speed of light in vacuum (approximately)?", Choices: []string{"300,000 km/s", "150,000 km/s", "450,000 km/s", "600,000 km/s"}, CorrectIndex: 0},
	{ID: "48", Difficulty: 10, Category: "physics", Text: "What is the smallest unit of matter?", Choices: []string{"Molecule", "Atom", "Electron", "Quark"}, CorrectIndex: 1},
	{ID: "49", Difficulty: 10, Category: "physics", Text: "Who discovered the law of gravity?", Choices: []string{"Galileo", "Newton", "Einstein", "Kepler"}, CorrectIndex: 1},
	{ID: "50", Difficulty: 10, Category: "physics", Text: "What is the formula for energy (Einstein's equation)?", Choices: []string{"E = mc", "E = mc²", "E = mv²", "E = mgh"}, CorrectIndex: 1},
}
