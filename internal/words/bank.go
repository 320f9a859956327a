package words

var animals = []string{
	"Cat", "Dog", "Rabbit", "Elephant", "Lion", "Tiger", "Bear", "Fox", "Wolf", "Deer",
	"Giraffe", "Monkey", "Snake", "Shark", "Whale", "Dolphin", "Penguin", "Frog", "Duck", "Horse",
	"Cow", "Pig", "Sheep", "Chicken", "Mouse", "Rat", "Bat", "Owl", "Eagle", "Parrot",
	"Butterfly", "Spider", "Ant", "Bee", "Crab", "Octopus", "Jellyfish", "Starfish", "Seahorse", "Zebra",
	"Panda", "Koala", "Kangaroo", "Camel", "Rhino", "Hippo", "Gorilla", "Sloth", "Otter", "Hedgehog",
	"Squirrel", "Flamingo", "Peacock", "Ostrich", "Swan", "Pigeon", "Crow", "Hawk", "Toucan", "Chameleon",
	"Crocodile", "Turtle", "Lobster", "Shrimp", "Squid", "Goldfish", "Stingray",
}

var food = []string{
	"Pizza", "Burger", "Sushi", "Taco", "Sandwich", "Pasta", "Steak", "Salad", "Soup", "Cake",
	"Ice Cream", "Chocolate", "Bread", "Cheese", "Egg", "Apple", "Banana", "Orange", "Grape", "Strawberry",
	"Watermelon", "Pineapple", "Cherry", "Peach", "Pear", "Lemon", "Lime", "Potato", "Tomato", "Onion",
	"Carrot", "Corn", "Broccoli", "Cookie", "Donut", "Pancake", "Waffle", "Bacon", "Sausage", "Hot Dog",
	"Burrito", "Nachos", "Fries", "Popcorn", "Pretzel", "Bagel", "Croissant", "Muffin", "Cupcake", "Lollipop",
	"Coffee", "Tea", "Milkshake", "Honey", "Garlic", "Rice", "Noodle", "Dumpling", "Curry", "Fried Chicken",
}

var objects = []string{
	"Chair", "Table", "Lamp", "Computer", "Phone", "Book", "Pen", "Clock", "Key", "Bag",
	"Shoes", "Glasses", "Hat", "Watch", "Ring", "Necklace", "Guitar", "Piano", "Drum", "Violin",
	"Camera", "TV", "Radio", "Headphones", "Speaker", "Car", "Bike", "Bus", "Train", "Plane",
	"Boat", "Ship", "Rocket", "Robot", "Doll", "Ball", "Racket", "Helmet", "Umbrella", "Bed",
	"Sofa", "Desk", "Mirror", "Window", "Door", "House", "Bridge", "Map", "Flag", "Money",
	"Ticket", "Wallet", "Backpack", "Suitcase", "Bottle", "Mug", "Plate", "Bowl", "Spoon", "Fork",
}

var actions = []string{
	"Run", "Jump", "Swim", "Fly", "Sleep", "Eat", "Drink", "Read", "Write", "Draw",
	"Sing", "Dance", "Play", "Fight", "Cry", "Laugh", "Smile", "Cook", "Clean", "Wash",
	"Drive", "Ride", "Walk", "Climb", "Dig", "Build", "Break", "Fix", "Cut", "Sew",
	"Paint", "Type", "Call", "Shop", "Think", "Dream", "Work", "Study", "Teach", "Help",
	"Win", "Lose", "Open", "Close", "Push", "Pull", "Throw", "Catch", "Kick", "Hug",
}

var nature = []string{
	"Beach", "Mountain", "Forest", "Desert", "Jungle", "Island", "Ocean", "River", "Lake", "Waterfall",
	"Volcano", "Cave", "Valley", "Canyon", "Park", "Garden", "Farm", "Zoo", "City", "Village",
	"Space", "Moon", "Sun", "Star", "Planet", "Galaxy", "Cloud", "Rain", "Snow", "Storm",
	"Wind", "Fire", "Earth", "Tree", "Flower", "Grass", "Leaf", "Rock", "Sand", "Rainbow",
}
