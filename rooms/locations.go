package rooms

import (
	"strings"
)

const locationMark = "■"

// OfficeMap is the full ASCII office layout shared through the file upload
// task.
const OfficeMap = `╔══════════════════╗          ╔═══════════════╦═════╗
║ Ground Floor     ║          ║               ║  1  ║
║                  ║          ║               ╠═════╣
║                  ║          ║               ║  2  ║
║                  ║          ║               ╠═════╣
║                  ║          ║               ║  3  ║
║                  ║          ║               ╚═════╣
║                  ║          ║                     ║
║                  ╚══════════╝                     ║
║                                                   ║
╚════════╦═════════╦════════════════════════════════╝
         ║    4    ║
         ╚═════════╝

1. Marie Curie
2. Godel
3. Diffie
4. Shannon

╔══════════════════╗          ╔═══════════════╦═════╗  ╔════╦═════════╦════╗
║ 1st Floor        ║          ║               ║  5  ║  ║    ║         ║    ║
║                  ║          ║               ╠═════╣  ║    ║    9    ║    ║
║                  ║          ║               ║  6  ║  ║    ╠═════════╣    ║
║                  ║          ║               ╠═════╣  ║  8 ║         ║ 10 ║
║                  ║          ║               ║  7  ║  ╠════╝         ╚════╣
║                  ║          ║               ╚═════╣  ║                   ║
║                  ║          ║                     ║  ║                   ║
║                  ╚══════════╝                     ╚══╝                   ║
║                                                                          ║
╚════════╦═════════╦═══════════════════════════════════════════════════════╝
         ║   11    ║
         ╚═════════╝

5. Knuth
6. Anita Borg
7. Lovelace
8. Boole
9. Ritchie
10. Hamming
11. Huffman

╔══════════════════╗         ╔═════════════════════╗
║ 2nd Floor        ║         ║                     ║
║                  ║         ║          12         ║
║                  ║         ║                     ║
║                  ║         ╠═════════════════════╣
║                  ║         ║                     ║
║                  ╚═════════╝                     ║
║                                                  ║
╚════════╦═════════╦═══════════════════════════════╝
         ║    13   ║
         ╚═════════╝

12. Turing
13. Angela Ruiz`

const groundFloorMap = `╔══════════════════╗          ╔═══════════════╦═════╗
║ Ground Floor     ║          ║               ║  {marie curie}  ║
║                  ║          ║               ╠═════╣
║                  ║          ║               ║  {godel}  ║
║                  ║          ║               ╠═════╣
║                  ║          ║               ║  {diffie}  ║
║                  ║          ║               ╚═════╣
║                  ║          ║                     ║
║                  ╚══════════╝                     ║
║                                                   ║
╚════════╦═════════╦════════════════════════════════╝
         ║    {shannon}    ║
         ╚═════════╝`

const firstFloorMap = `╔══════════════════╗          ╔═══════════════╦═════╗  ╔════╦═══════╦════╗
║ 1st Floor        ║          ║               ║  {knuth}  ║  ║    ║       ║    ║
║                  ║          ║               ╠═════╣  ║    ║   {ritchie}   ║    ║
║                  ║          ║               ║  {anita borg}  ║  ║    ╠═══════╣    ║
║                  ║          ║               ╠═════╣  ║  {boole} ║       ║ {hamming}  ║
║                  ║          ║               ║  {lovelace}  ║  ╠════╝       ╚════╣
║                  ║          ║               ╚═════╣  ║                 ║
║                  ║          ║                     ║  ║                 ║
║                  ╚══════════╝                     ╚══╝                 ║
║                                                                        ║
╚════════╦═════════╦═════════════════════════════════════════════════════╝
         ║    {huffman}    ║
         ╚═════════╝`

const secondFloorMap = `╔══════════════════╗         ╔═════════════════════╗
║ 2nd Floor        ║         ║                     ║
║                  ║         ║          {turing}          ║
║                  ║         ║                     ║
║                  ║         ╠═════════════════════╣
║                  ║         ║                     ║
║                  ╚═════════╝                     ║
║                                                  ║
╚════════╦═════════╦═══════════════════════════════╝
         ║    {angela ruiz}   ║
         ╚═════════╝`

var floorMaps = map[int]string{
	0: groundFloorMap,
	1: firstFloorMap,
	2: secondFloorMap,
}

// LocationMap renders the room's floor with the room position marked.
// Every other room slot becomes a blank so the box drawing stays aligned.
func (r Room) LocationMap() string {
	floorMap := floorMaps[r.Floor]
	for _, other := range AllRooms() {
		mark := " "
		if other.Name == r.Name {
			mark = locationMark
		}
		floorMap = strings.ReplaceAll(floorMap, "{"+other.Name+"}", mark)
	}
	return floorMap
}
